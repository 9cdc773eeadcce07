package balancer

import (
	"strconv"

	"github.com/segmentio/kafka-go"
)

type IBaseBalancer interface {
	Balance(msg kafka.Message, partitions ...int) (partition int)
}

type MemberBalancer struct {
	numPartitions int
}

func NewMemberBalancer(numPartitions int) IBaseBalancer {
	return &MemberBalancer{numPartitions: numPartitions}
}

// 通知事件以會員ID做key 同一會員的通知落在同一分區 保持順序
func (c *MemberBalancer) Balance(msg kafka.Message, partitions ...int) (partition int) {
	memberID, err := strconv.Atoi(string(msg.Key))
	if err != nil {
		return 0
	}

	if len(partitions) != 0 {
		return partitions[memberID%len(partitions)]
	}

	return memberID % c.numPartitions
}

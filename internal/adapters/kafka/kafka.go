package kafka

import (
	"github.com/IBM/sarama"
)

func InitKafkaProducer(brokers []string, topic string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner // keep one workspace on one partition
	config.Version = sarama.V2_0_0_0
	config.ClientID = "slack-service"
	config.Producer.MaxMessageBytes = 1000000
	config.Producer.Flush.MaxMessages = 1000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return producer, nil
}

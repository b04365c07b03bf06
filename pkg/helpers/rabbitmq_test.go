package helpers

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestAttempts(t *testing.T) {
	tests := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{name: "first delivery", headers: nil, want: 0},
		{name: "int32 from the broker", headers: amqp.Table{AttemptHeader: int32(3)}, want: 3},
		{name: "int64", headers: amqp.Table{AttemptHeader: int64(2)}, want: 2},
		{name: "garbage", headers: amqp.Table{AttemptHeader: "two"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Attempts(tt.headers))
		})
	}
}

func TestDeadQueue(t *testing.T) {
	assert.Equal(t, "emails.dead", DeadQueue("emails"))
}

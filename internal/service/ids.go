package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newID builds "<prefix>-<unix millis>-<random>" so ids sort roughly by
// creation time and stay unique within the same millisecond.
func newID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), uuid.New().String()[:8])
}

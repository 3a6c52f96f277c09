package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ticketNumberPrefix = "CMP"

// NewTicketNumber produces a collision-resistant ticket number without
// consulting storage: prefix, base36 millisecond timestamp, and a random
// suffix. Uniqueness is still backed by the database constraint; a
// collision there makes the caller regenerate and retry once.
func NewTicketNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return ticketNumberPrefix + "-" + ts + "-" + random
}

package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxOrderIDLength = 50

// NewOrderID mints a gateway order id of the form prefix-unix-hex.
func NewOrderID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	id := fmt.Sprintf("%s-%d-%s", prefix, now.Unix(), suffix)
	if len(id) > maxOrderIDLength {
		id = id[len(id)-maxOrderIDLength:]
	}
	return id
}

// cartLockKey serializes the cart and buy-now flows of one user.
func cartLockKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

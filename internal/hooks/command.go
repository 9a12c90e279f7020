package hooks

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadPayoutID    = errors.New("malformed payout id")
)

// ParsePaidCommand extracts the payout id and an optional provider
// reference from a chat-bot confirmation like
//
//	/paid 8b5c... TXN12345
func ParsePaidCommand(message string) (payoutID, reference string, err error) {
	fields := strings.Fields(message)
	if len(fields) < 2 || fields[0] != "/paid" {
		return "", "", ErrUnknownCommand
	}
	if _, err := uuid.Parse(fields[1]); err != nil {
		return "", "", ErrBadPayoutID
	}
	payoutID = fields[1]
	if len(fields) > 2 {
		reference = fields[2]
	}
	return payoutID, reference, nil
}

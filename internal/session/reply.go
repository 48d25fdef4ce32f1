package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedReply reports a registration reply that does not follow the
// ack;uuid=..;hop_count=..;session_uuid=..;answered=.. layout.
var ErrMalformedReply = errors.New("malformed registration reply")

// StartReply is the parsed registration handshake response.
type StartReply struct {
	DeviceUUID  string
	HopCount    int
	SessionUUID string
	Answered    bool
}

// replyKeys lists the accepted key names per field position. The older
// endpoint generation used WEBAI_UUID, sc and answered_questionnaire;
// both spellings stay accepted.
var replyKeys = [4]map[string]bool{
	{"uuid": true, "WEBAI_UUID": true},
	{"hop_count": true},
	{"session_uuid": true, "sc": true},
	{"answered": true, "answered_questionnaire": true},
}

// ParseStartReply decodes the semicolon-separated registration reply.
// Exactly five fields are required: a bare acknowledgement followed by
// four key=value pairs in a fixed order.
func ParseStartReply(raw string) (StartReply, error) {
	parts := strings.Split(strings.TrimSpace(raw), ";")
	if len(parts) != 5 {
		return StartReply{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrMalformedReply, len(parts))
	}
	if parts[0] == "" || strings.Contains(parts[0], "=") {
		return StartReply{}, fmt.Errorf("%w: missing acknowledgement field", ErrMalformedReply)
	}

	var values [4]string
	for i, field := range parts[1:] {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return StartReply{}, fmt.Errorf("%w: field %d is not key=value", ErrMalformedReply, i+1)
		}
		if !replyKeys[i][key] {
			return StartReply{}, fmt.Errorf("%w: unexpected key %q in field %d", ErrMalformedReply, key, i+1)
		}
		values[i] = value
	}

	hopCount, err := strconv.Atoi(values[1])
	if err != nil || hopCount < 0 {
		return StartReply{}, fmt.Errorf("%w: hop_count %q is not a non-negative integer", ErrMalformedReply, values[1])
	}
	answered, err := strconv.ParseBool(values[3])
	if err != nil {
		return StartReply{}, fmt.Errorf("%w: answered %q is not a boolean", ErrMalformedReply, values[3])
	}

	return StartReply{
		DeviceUUID:  values[0],
		HopCount:    hopCount,
		SessionUUID: values[2],
		Answered:    answered,
	}, nil
}

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/identity"
)

// Answer vocabulary the questionnaire endpoint accepts. Any other value
// comes back as an in-band rejection.
const (
	HandRight = "Right Handed"
	HandLeft  = "Left Handed"

	AnswerYes   = "Yes"
	AnswerNo    = "No"
	AnswerMaybe = "Maybe"
)

// Questionnaire carries the self-reported answers collected alongside the
// behavioral streams. Anxiety and awareness run on a 1 to 5 scale.
type Questionnaire struct {
	Gender      string
	Age         int
	Hand        string // HandRight or HandLeft
	Anxiety     int
	Awareness   int
	Frustration string // AnswerYes, AnswerNo or AnswerMaybe
	Happiness   string // AnswerYes, AnswerNo or AnswerMaybe
}

// Validate rejects answers outside the endpoint's vocabulary before they
// go on the wire.
func (q Questionnaire) Validate() error {
	switch q.Hand {
	case HandRight, HandLeft:
	default:
		return fmt.Errorf("unknown hand value %q", q.Hand)
	}
	switch q.Frustration {
	case AnswerYes, AnswerNo, AnswerMaybe:
	default:
		return fmt.Errorf("unknown frustration value %q", q.Frustration)
	}
	switch q.Happiness {
	case AnswerYes, AnswerNo, AnswerMaybe:
	default:
		return fmt.Errorf("unknown happiness value %q", q.Happiness)
	}
	return nil
}

// questionnairePacket is the wire form. The endpoint declares every
// answer field as a string, numeric scales included.
type questionnairePacket struct {
	WebaiUUID   string `json:"webai_uuid"`
	SessionUUID string `json:"session_uuid"`
	Gender      string `json:"gender"`
	Age         string `json:"age"`
	Hand        string `json:"hand"`
	Anxiety     string `json:"anxiety"`
	Awareness   string `json:"awareness"`
	Frustration string `json:"frustration"`
	Happiness   string `json:"happiness"`
}

// SubmitQuestionnaire posts the answers to /send_questionnaire tagged
// with the device and session identity. The endpoint reports rejections
// in the reply body, not the status code, so the body must read ok.
func (b *Bootstrap) SubmitQuestionnaire(ctx context.Context, id identity.Identity, q Questionnaire) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("invalid questionnaire: %w", err)
	}

	packet := questionnairePacket{
		WebaiUUID:   id.DeviceUUID,
		SessionUUID: id.SessionUUID,
		Gender:      q.Gender,
		Age:         strconv.Itoa(q.Age),
		Hand:        q.Hand,
		Anxiety:     strconv.Itoa(q.Anxiety),
		Awareness:   strconv.Itoa(q.Awareness),
		Frustration: q.Frustration,
		Happiness:   q.Happiness,
	}

	body, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to encode questionnaire: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/send_questionnaire"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build questionnaire request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach questionnaire endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("questionnaire rejected with status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("failed to read questionnaire reply: %w", err)
	}
	if reply := strings.TrimSpace(string(raw)); reply != "ok" {
		return fmt.Errorf("questionnaire rejected: %s", reply)
	}

	log.Info().Str("session_uuid", id.SessionUUID).Msg("Questionnaire submitted")
	return nil
}

// LogPrompter announces a due questionnaire in the log. Surfacing an
// actual form is left to whatever embeds the collector.
type LogPrompter struct{}

func (LogPrompter) Prompt(reply StartReply) {
	log.Info().
		Int("hop_count", reply.HopCount).
		Msg("Questionnaire invitation due")
}

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
)

// clientDateFormat renders the registration timestamp as UTC with
// millisecond precision, matching what the endpoint expects.
const clientDateFormat = "2006-01-02T15:04:05.000Z"

// maxReplyBytes caps how much of the registration response is read.
const maxReplyBytes = 4096

// promptHopCount is the minimum hop count before the questionnaire
// invitation fires.
const promptHopCount = 2

// Prompter is invited when the endpoint reports the questionnaire is due.
type Prompter interface {
	Prompt(reply StartReply)
}

type startRequest struct {
	DeviceUUID    string `json:"device_uuid"`
	SessionUUID   string `json:"session_uuid"`
	URL           string `json:"url"`
	Version       string `json:"version"`
	ClientDate    string `json:"client_date"`
	UserAgent     string `json:"user_agent"`
	AppName       string `json:"app_name"`
	Language      string `json:"language"`
	CookieEnabled bool   `json:"cookie_enabled"`
	Product       string `json:"product"`
	Vendor        string `json:"vendor"`
}

// Bootstrap performs the one-time registration handshake against the
// /start_webai endpoint and settles the device and session identity.
type Bootstrap struct {
	client    *http.Client
	baseURL   string
	version   string
	profile   Profile
	durable   identity.Store
	ephemeral identity.Store
	prompter  Prompter
	clock     collector.Clock
}

type BootstrapConfig struct {
	BaseURL string
	Timeout time.Duration
	Version string
	Profile Profile

	// Durable holds the device identity across sessions; Ephemeral holds
	// the session identity for this run only.
	Durable   identity.Store
	Ephemeral identity.Store

	Prompter Prompter
	Clock    collector.Clock
}

func NewBootstrap(cfg BootstrapConfig) *Bootstrap {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Bootstrap{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		version:   cfg.Version,
		profile:   cfg.Profile,
		durable:   cfg.Durable,
		ephemeral: cfg.Ephemeral,
		prompter:  cfg.Prompter,
		clock:     clock,
	}
}

func (b *Bootstrap) endpoint(path string) string {
	return b.baseURL + path
}

// Run registers with the endpoint and returns the settled identity.
// Identifiers already held by the stores win over whatever the endpoint
// replies; the reply only fills the gaps.
func (b *Bootstrap) Run(ctx context.Context) (identity.Identity, error) {
	device, err := b.durable.Get(ctx, identity.DeviceKey)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to read device identity: %w", err)
	}
	session, err := b.ephemeral.Get(ctx, identity.SessionKey)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to read session identity: %w", err)
	}

	req := startRequest{
		DeviceUUID:    device,
		SessionUUID:   session,
		URL:           b.profile.URL,
		Version:       b.version,
		ClientDate:    b.clock().UTC().Format(clientDateFormat),
		UserAgent:     b.profile.UserAgent,
		AppName:       b.profile.AppName,
		Language:      b.profile.Language,
		CookieEnabled: b.profile.CookieEnabled,
		Product:       b.profile.Product,
		Vendor:        b.profile.Vendor,
	}

	reply, err := b.register(ctx, req)
	if err != nil {
		return identity.Identity{}, err
	}

	if _, err := uuid.Parse(reply.DeviceUUID); err != nil {
		log.Warn().
			Str("device_uuid", reply.DeviceUUID).
			Msg("Registration returned a non-UUID device identifier")
	}

	device, err = b.durable.SetIfAbsent(ctx, identity.DeviceKey, reply.DeviceUUID)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to store device identity: %w", err)
	}
	session, err = b.ephemeral.SetIfAbsent(ctx, identity.SessionKey, reply.SessionUUID)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to store session identity: %w", err)
	}

	log.Info().
		Str("device_uuid", device).
		Str("session_uuid", session).
		Int("hop_count", reply.HopCount).
		Msg("Session registered")

	if b.prompter != nil && reply.HopCount >= promptHopCount && !reply.Answered {
		b.prompter.Prompt(reply)
	}

	return identity.Identity{DeviceUUID: device, SessionUUID: session}, nil
}

func (b *Bootstrap) register(ctx context.Context, req startRequest) (StartReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return StartReply{}, fmt.Errorf("failed to encode registration request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/start_webai"), bytes.NewReader(body))
	if err != nil {
		return StartReply{}, fmt.Errorf("failed to build registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return StartReply{}, fmt.Errorf("failed to reach registration endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StartReply{}, fmt.Errorf("registration rejected with status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return StartReply{}, fmt.Errorf("failed to read registration reply: %w", err)
	}
	return ParseStartReply(string(raw))
}

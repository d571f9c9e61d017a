package tts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
)

const (
	streamHandshakeTimeout = 5 * time.Second
	streamReadTimeout      = 60 * time.Second
	hmacAlgorithm          = "hmac-sha256"

	// statusFinalFrame marks the last audio frame of a synthesis session.
	statusFinalFrame = 2
)

// StreamBackend synthesizes speech over a websocket speech gateway. The
// gateway authenticates with an HMAC-SHA256 signed URL, accepts a single
// request frame carrying base64 text, and streams back base64 audio frames
// until a final-status frame.
type StreamBackend struct {
	gatewayURL  string
	appID       string
	apiKey      string
	apiSecret   string
	dialer      *websocket.Dialer
	readTimeout time.Duration
}

// streamRequest is the single request frame sent after the handshake.
type streamRequest struct {
	Common   streamCommon   `json:"common"`
	Business streamBusiness `json:"business"`
	Data     streamData     `json:"data"`
}

type streamCommon struct {
	AppID string `json:"app_id"`
}

type streamBusiness struct {
	Format   string `json:"format"`
	Voice    string `json:"voice"`
	Rate     string `json:"rate,omitempty"`
	Volume   string `json:"volume,omitempty"`
	Pitch    string `json:"pitch,omitempty"`
	Encoding string `json:"encoding"`
}

type streamData struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}

// streamResponse is one frame of the gateway's reply stream.
type streamResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Audio  string `json:"audio"`
		Status int    `json:"status"`
	} `json:"data"`
}

// NewStreamBackend creates a websocket gateway backend.
func NewStreamBackend(gatewayURL, appID, apiKey, apiSecret string) *StreamBackend {
	return &StreamBackend{
		gatewayURL: gatewayURL,
		appID:      appID,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		dialer: &websocket.Dialer{
			HandshakeTimeout: streamHandshakeTimeout,
		},
		readTimeout: streamReadTimeout,
	}
}

// NativeFormat reports the format the gateway streams.
func (b *StreamBackend) NativeFormat() string {
	return string(audio.FormatMP3)
}

// Synthesize sends the text to the gateway and concatenates the returned
// audio frames.
func (b *StreamBackend) Synthesize(
	ctx context.Context,
	text string,
	opts core.SynthesisOptions,
) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	if opts.Voice == "" {
		return nil, ErrVoiceEmpty
	}

	signedURL, err := b.signURL(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	conn, resp, err := b.dialer.DialContext(ctx, signedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing speech gateway: %w", ErrBackendUnavailable, err)
	}

	if resp != nil && resp.Body != nil {
		closeQuietly(resp.Body)
	}

	defer func() { _ = conn.Close() }()

	request := streamRequest{
		Common: streamCommon{AppID: b.appID},
		Business: streamBusiness{
			Format:   string(audio.FormatMP3),
			Voice:    opts.Voice,
			Rate:     opts.Rate,
			Volume:   opts.Volume,
			Pitch:    opts.Pitch,
			Encoding: "utf8",
		},
		Data: streamData{
			Status: statusFinalFrame,
			Text:   base64.StdEncoding.EncodeToString([]byte(text)),
		},
	}

	writeErr := conn.WriteJSON(request)
	if writeErr != nil {
		return nil, fmt.Errorf("failed to send synthesis frame: %w", writeErr)
	}

	return b.readAudioFrames(ctx, conn)
}

// readAudioFrames drains the reply stream until the final-status frame.
func (b *StreamBackend) readAudioFrames(
	ctx context.Context,
	conn *websocket.Conn,
) ([]byte, error) {
	var audioData bytes.Buffer

	for {
		// A stalled gateway must not block forever, so reads always carry
		// a deadline even when the caller's context has none.
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(b.readTimeout)
		}

		deadlineErr := conn.SetReadDeadline(deadline)
		if deadlineErr != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", deadlineErr)
		}

		var frame streamResponse

		readErr := conn.ReadJSON(&frame)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read gateway frame: %w", readErr)
		}

		if frame.Code != 0 {
			return nil, fmt.Errorf(
				"speech gateway error code %d: %s",
				frame.Code,
				frame.Message,
			)
		}

		if frame.Data.Audio != "" {
			decoded, decodeErr := base64.StdEncoding.DecodeString(frame.Data.Audio)
			if decodeErr != nil {
				return nil, fmt.Errorf("failed to decode audio frame: %w", decodeErr)
			}

			audioData.Write(decoded)
		}

		if frame.Data.Status == statusFinalFrame {
			break
		}
	}

	if audioData.Len() == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData.Bytes(), nil
}

// signURL builds the authenticated gateway URL. The signature covers the
// host, the date and the request line, matching the gateway's contract.
func (b *StreamBackend) signURL(now time.Time) (string, error) {
	parsed, err := url.Parse(b.gatewayURL)
	if err != nil {
		return "", fmt.Errorf("invalid gateway URL %q: %w", b.gatewayURL, err)
	}

	date := now.Format(time.RFC1123)
	signedFields := strings.Join([]string{
		"host: " + parsed.Host,
		"date: " + date,
		"GET " + parsed.Path + " HTTP/1.1",
	}, "\n")

	mac := hmac.New(sha256.New, []byte(b.apiSecret))
	mac.Write([]byte(signedFields))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	authorization := fmt.Sprintf(
		"hmac username=%q, algorithm=%q, headers=%q, signature=%q",
		b.apiKey, hmacAlgorithm, "host date request-line", signature,
	)

	values := url.Values{}
	values.Add("host", parsed.Host)
	values.Add("date", date)
	values.Add("authorization", base64.StdEncoding.EncodeToString([]byte(authorization)))

	return b.gatewayURL + "?" + values.Encode(), nil
}

package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	edgeWSURL          = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeTrustedToken   = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	defaultVoice       = "pt-BR-AntonioNeural"
	defaultAudioFormat = "audio-24khz-48kbitrate-mono-mp3"
)

// EdgeClient implements the Client interface using the Edge neural TTS
// websocket endpoint. One connection is dialed per synthesis turn.
type EdgeClient struct {
	voice        string
	outputFormat string
	wsURL        string
	dialer       *websocket.Dialer
}

// EdgeConfig holds configuration for the Edge TTS client.
type EdgeConfig struct {
	Voice        string // e.g., "pt-BR-AntonioNeural"
	OutputFormat string // e.g., "audio-24khz-48kbitrate-mono-mp3"
	WSURL        string // Optional override, used in tests
}

// NewEdgeClient creates a new Edge TTS client.
func NewEdgeClient(cfg EdgeConfig) *EdgeClient {
	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	outputFormat := cfg.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultAudioFormat
	}
	wsURL := cfg.WSURL
	if wsURL == "" {
		wsURL = edgeWSURL
	}
	return &EdgeClient{
		voice:        voice,
		outputFormat: outputFormat,
		wsURL:        wsURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func buildSSML(voice, text string) string {
	return fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='pt-BR'><voice name='%s'>%s</voice></speak>",
		voice, ssmlEscaper.Replace(text))
}

// Synthesize converts text to speech and returns the audio data as MP3 bytes.
func (c *EdgeClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	connID := strings.ReplaceAll(uuid.NewString(), "-", "")
	url := fmt.Sprintf("%s?TrustedClientToken=%s&ConnectionId=%s", c.wsURL, edgeTrustedToken, connID)

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to Edge TTS: %s - %w", resp.Status, err)
		}
		return nil, fmt.Errorf("failed to connect to Edge TTS: %w", err)
	}
	defer conn.Close()

	timestamp := time.Now().UTC().Format(time.RFC1123)

	speechConfig := fmt.Sprintf(
		"X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n"+
			`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"false"},"outputFormat":"%s"}}}}`,
		timestamp, c.outputFormat)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfig)); err != nil {
		return nil, fmt.Errorf("failed to send speech config: %w", err)
	}

	ssmlMsg := fmt.Sprintf(
		"X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%s\r\nPath:ssml\r\n\r\n%s",
		connID, timestamp, buildSSML(c.voice, text))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return nil, fmt.Errorf("failed to send ssml: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	}

	var audio []byte
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read message: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if len(audio) == 0 {
					return nil, fmt.Errorf("no audio received")
				}
				return audio, nil
			}
		case websocket.BinaryMessage:
			// Binary frames carry a 2-byte header length, the header text,
			// then the raw audio payload.
			if len(data) < 2 {
				continue
			}
			headerLen := int(binary.BigEndian.Uint16(data[:2]))
			if len(data) < 2+headerLen {
				continue
			}
			if bytes.Contains(data[2:2+headerLen], []byte("Path:audio")) {
				audio = append(audio, data[2+headerLen:]...)
			}
		}
	}
}

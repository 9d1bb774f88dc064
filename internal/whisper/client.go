package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/GrupaDomanscy/whisper-connector/internal/config"
)

const audioContentType = "audio/mpeg"

// Client calls an OpenAI-compatible /v1/audio/transcriptions endpoint.
type Client struct {
	url    string
	model  string
	client *http.Client
	log    zerolog.Logger
}

var _ Transcriber = (*Client)(nil)

// New creates a transcription client. Requests have no timeout; they end
// when the service answers or ctx is cancelled.
func New(cfg config.WhisperConfig, log zerolog.Logger) *Client {
	return &Client{
		url:    cfg.URL,
		model:  cfg.Model,
		client: &http.Client{},
		log:    log,
	}
}

type response struct {
	Text *string `json:"text"`
}

// Transcribe streams the audio as multipart/form-data and returns the
// service's text verbatim.
func (c *Client) Transcribe(ctx context.Context, req Request) (string, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	written := make(chan struct{})
	go func() {
		defer close(written)
		pw.CloseWithError(c.writeForm(form, req))
	}()
	// The form writer must be done with req.Audio before we return
	defer func() {
		pr.Close()
		<-written
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, pr)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	c.log.Debug().Str("url", c.url).Str("file", req.FileName).Str("language", req.Language).Msg("Uploading sample")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if result.Text == nil {
		return "", fmt.Errorf("%w: missing text field", ErrDecode)
	}

	return *result.Text, nil
}

func (c *Client) writeForm(form *multipart.Writer, req Request) error {
	if err := form.WriteField("model", c.model); err != nil {
		return err
	}
	if err := form.WriteField("language", req.Language); err != nil {
		return err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(req.FileName)))
	header.Set("Content-Type", audioContentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}

	pr := &progressReader{r: req.Audio, file: req.FileName, lastLog: time.Now(), log: c.log}
	if _, err := io.Copy(part, pr); err != nil {
		return fmt.Errorf("copy audio data: %w", err)
	}
	pr.done()

	return form.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// progressReader logs upload progress every 2 seconds
type progressReader struct {
	r        io.Reader
	file     string
	uploaded int64
	lastLog  time.Time
	log      zerolog.Logger
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.uploaded += int64(n)

	if now := time.Now(); now.Sub(p.lastLog) >= 2*time.Second {
		p.lastLog = now
		p.log.Debug().
			Str("file", p.file).
			Float64("uploaded_kb", float64(p.uploaded)/1024).
			Msg("Uploading sample")
	}

	return n, err
}

func (p *progressReader) done() {
	p.log.Debug().
		Str("file", p.file).
		Float64("size_kb", float64(p.uploaded)/1024).
		Msg("Sample uploaded")
}

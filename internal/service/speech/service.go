package speech

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mijinlabs/lily-assistant/internal/config"
)

// maxUtteranceRunes caps the text sent to the TTS endpoint per request.
const maxUtteranceRunes = 200

// Service fetches synthesized speech for a reply and manages the resulting
// audio files under the static audio directory. Synthesis failures never fail
// a chat turn; the audio URL is simply omitted.
type Service struct {
	cfg    config.SpeechConfig
	client *http.Client
}

// NewService creates the TTS sidecar and ensures the audio directory exists.
func NewService(cfg config.SpeechConfig) (*Service, error) {
	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir %s: %w", cfg.AudioDir, err)
	}

	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Enabled reports whether audio should be generated for chat replies.
func (s *Service) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Synthesize fetches speech for text and writes it as an mp3 file, returning
// the public URL under /static/audio. The emotion tag tweaks the speaking
// speed; the voice itself is fixed.
func (s *Service) Synthesize(ctx context.Context, text, emotion string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty text for synthesis")
	}

	runes := []rune(text)
	if len(runes) > maxUtteranceRunes {
		text = string(runes[:maxUtteranceRunes])
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", s.cfg.Language)
	params.Set("ttsspeed", speedForEmotion(emotion))
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build tts request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts endpoint returned status %d", resp.StatusCode)
	}

	name := fmt.Sprintf("lily_%s.mp3", uuid.NewString())
	path := filepath.Join(s.cfg.AudioDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return "/static/audio/" + name, nil
}

// Delete removes the audio file referenced by a /static/audio URL. It
// reports whether a file was actually deleted.
func (s *Service) Delete(audioURL string) bool {
	name := filepath.Base(audioURL)
	if name == "." || name == "/" || strings.Contains(name, "..") {
		return false
	}

	if err := os.Remove(filepath.Join(s.cfg.AudioDir, name)); err != nil {
		return false
	}
	return true
}

// CleanOldFiles removes generated audio older than maxAge and returns how
// many files were deleted. Run at startup to drop leftovers from a previous
// process.
func (s *Service) CleanOldFiles(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.cfg.AudioDir)
	if err != nil {
		log.Printf("[speech] failed to read audio dir: %v", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.AudioDir, entry.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		log.Printf("[speech] removed %d stale audio files", removed)
	}
	return removed
}

// AudioPath resolves a bare filename to its on-disk path, rejecting anything
// that tries to escape the audio directory.
func (s *Service) AudioPath(filename string) (string, bool) {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return "", false
	}

	path := filepath.Join(s.cfg.AudioDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// speedForEmotion slows delivery down slightly for low moods.
func speedForEmotion(emotion string) string {
	switch emotion {
	case "triste", "preocupada":
		return "0.8"
	default:
		return "1"
	}
}

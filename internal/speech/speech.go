// Package speech wraps the hosted speech services consumed by the voice
// front-end. The response pipeline never touches these; they only sit
// between the user's audio and the text interface of the agent.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/sahil-voice-agent/server/internal/agent/model"
	errx "github.com/sahil-voice-agent/server/internal/core/error"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// Transcriber converts recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Synthesizer renders reply text as speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, out io.Writer) error
}

// OpenAISpeech implements both directions over the OpenAI audio APIs.
type OpenAISpeech struct {
	client openai.Client
	cfg    model.SpeechConfig
}

func NewOpenAISpeech(cfg model.SpeechConfig) *OpenAISpeech {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAISpeech{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

func (s *OpenAISpeech) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(s.cfg.STTModel),
		File:  audio,
	}
	if s.cfg.Language != "" {
		params.Language = openai.String(s.cfg.Language)
	}

	transcription, err := s.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		logx.Error().Err(err).Str("model", s.cfg.STTModel).Msg("transcription failed")
		return "", errx.WrapSpeech(err)
	}

	text := strings.TrimSpace(transcription.Text)
	logx.Debug().Int("chars", len(text)).Msg("audio transcribed")
	return text, nil
}

func (s *OpenAISpeech) Synthesize(ctx context.Context, text string, out io.Writer) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to synthesize")
	}

	res, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(s.cfg.TTSModel),
		Voice: openai.AudioSpeechNewParamsVoice(s.cfg.Voice),
		Input: text,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", s.cfg.TTSModel).Msg("speech synthesis failed")
		return errx.WrapSpeech(err)
	}
	defer res.Body.Close()

	n, err := io.Copy(out, res.Body)
	if err != nil {
		return errx.WrapSpeech(err)
	}
	logx.Debug().Int64("bytes", n).Msg("speech synthesized")
	return nil
}

var (
	_ Transcriber = (*OpenAISpeech)(nil)
	_ Synthesizer = (*OpenAISpeech)(nil)
)

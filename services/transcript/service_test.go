package transcript

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"yt-summarizer/config"
	"yt-summarizer/models"
	"yt-summarizer/stt"
	"yt-summarizer/youtube"
)

type fakeSource struct {
	info        *youtube.VideoInfo
	infoErr     error
	captions    map[string]string
	captionErrs map[string]error
	audioErr    error

	downloadCalls int
	captionCalls  []string
}

func (f *fakeSource) VideoInfo(ctx context.Context, videoID string) (*youtube.VideoInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeSource) FetchCaptions(ctx context.Context, track youtube.CaptionTrack) (string, error) {
	f.captionCalls = append(f.captionCalls, track.URL)
	if err, ok := f.captionErrs[track.URL]; ok {
		return "", err
	}
	return f.captions[track.URL], nil
}

func (f *fakeSource) DownloadAudio(ctx context.Context, videoID, destDir string) (string, error) {
	f.downloadCalls++
	if f.audioErr != nil {
		return "", f.audioErr
	}
	return filepath.Join(destDir, videoID+".mp3"), nil
}

type fakeAudio struct {
	sizeMB     float64
	chunkNames []string
	splitErr   error

	splitCalls    int
	compressCalls int
}

func (f *fakeAudio) SizeMB(path string) (float64, error) {
	return f.sizeMB, nil
}

func (f *fakeAudio) Compress(ctx context.Context, src, dst string) error {
	f.compressCalls++
	return nil
}

func (f *fakeAudio) Split(ctx context.Context, path string, chunk time.Duration) ([]string, error) {
	f.splitCalls++
	if f.splitErr != nil {
		return nil, f.splitErr
	}
	dir := filepath.Dir(path)
	chunks := make([]string, 0, len(f.chunkNames))
	for _, name := range f.chunkNames {
		chunks = append(chunks, filepath.Join(dir, name))
	}
	return chunks, nil
}

type fakeProvider struct {
	name  string
	texts map[string]string
	err   error

	calls []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	base := filepath.Base(audioPath)
	p.calls = append(p.calls, base)
	if p.err != nil {
		return "", p.err
	}
	text, ok := p.texts[base]
	if !ok {
		return "", fmt.Errorf("no transcript for %s", base)
	}
	return text, nil
}

func testConfig() config.TranscriptConfig {
	return config.TranscriptConfig{
		DefaultLanguage:   "es",
		CompressAboveMB:   24,
		MaxUploadMB:       25,
		ChunkDuration:     600 * time.Second,
		TranscribeTimeout: time.Minute,
	}
}

func track(url string) []youtube.CaptionTrack {
	return []youtube.CaptionTrack{{URL: url, Ext: "vtt"}}
}

const captionPayload = "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nhola mundo\n"

func TestFetchManualCaptionsRequestedLanguage(t *testing.T) {
	source := &fakeSource{
		info: &youtube.VideoInfo{
			Subtitles: map[string][]youtube.CaptionTrack{
				"es": track("http://caps/es"),
				"en": track("http://caps/en"),
			},
		},
		captions: map[string]string{"http://caps/es": captionPayload},
	}

	svc := NewService(source, &fakeAudio{}, nil, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Method != models.MethodSubtitles {
		t.Errorf("Method = %q, want %q", got.Method, models.MethodSubtitles)
	}
	if got.Text != "hola mundo" {
		t.Errorf("Text = %q", got.Text)
	}
	if source.downloadCalls != 0 {
		t.Errorf("DownloadAudio called %d times, want 0", source.downloadCalls)
	}
	if len(source.captionCalls) != 1 || source.captionCalls[0] != "http://caps/es" {
		t.Errorf("caption calls = %v, want only the requested language", source.captionCalls)
	}
}

func TestFetchFallsBackToManualEnglish(t *testing.T) {
	source := &fakeSource{
		info: &youtube.VideoInfo{
			Subtitles: map[string][]youtube.CaptionTrack{
				"en": track("http://caps/en"),
			},
		},
		captions: map[string]string{"http://caps/en": captionPayload},
	}

	svc := NewService(source, &fakeAudio{}, nil, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Method != models.MethodSubtitles {
		t.Errorf("Method = %q, want %q", got.Method, models.MethodSubtitles)
	}
}

func TestFetchAutomaticCaptionOrder(t *testing.T) {
	source := &fakeSource{
		info: &youtube.VideoInfo{
			AutoCaptions: map[string][]youtube.CaptionTrack{
				"es": track("http://auto/es"),
				"en": track("http://auto/en"),
			},
		},
		captions: map[string]string{
			"http://auto/es": captionPayload,
			"http://auto/en": captionPayload,
		},
	}

	svc := NewService(source, &fakeAudio{}, nil, testConfig(), t.TempDir())

	if _, err := svc.Fetch(context.Background(), "vid12345678", "es"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(source.captionCalls) != 1 || source.captionCalls[0] != "http://auto/es" {
		t.Errorf("caption calls = %v, want requested language before English", source.captionCalls)
	}
}

func TestFetchCaptionFailureFallsThrough(t *testing.T) {
	source := &fakeSource{
		info: &youtube.VideoInfo{
			Subtitles: map[string][]youtube.CaptionTrack{
				"es": track("http://caps/es"),
			},
			AutoCaptions: map[string][]youtube.CaptionTrack{
				"es": track("http://auto/es"),
			},
		},
		captions:    map[string]string{"http://auto/es": captionPayload},
		captionErrs: map[string]error{"http://caps/es": fmt.Errorf("fetch failed")},
	}

	svc := NewService(source, &fakeAudio{}, nil, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "hola mundo" {
		t.Errorf("Text = %q", got.Text)
	}
	if len(source.captionCalls) != 2 {
		t.Errorf("caption calls = %v, want manual then automatic", source.captionCalls)
	}
}

func TestFetchTranscribesAudioWhenNoCaptions(t *testing.T) {
	source := &fakeSource{info: &youtube.VideoInfo{}}
	audio := &fakeAudio{sizeMB: 5}
	primary := &fakeProvider{
		name:  "primary",
		texts: map[string]string{"vid12345678.mp3": "spoken words"},
	}

	svc := NewService(source, audio, []stt.Provider{primary}, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Method != models.MethodTranscription {
		t.Errorf("Method = %q, want %q", got.Method, models.MethodTranscription)
	}
	if got.Text != "spoken words" {
		t.Errorf("Text = %q", got.Text)
	}
	if audio.splitCalls != 0 {
		t.Error("Split called for a file under the upload limit")
	}
}

func TestFetchProviderFallback(t *testing.T) {
	source := &fakeSource{info: &youtube.VideoInfo{}}
	audio := &fakeAudio{sizeMB: 5}
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("quota exceeded")}
	fallback := &fakeProvider{
		name:  "fallback",
		texts: map[string]string{"vid12345678.mp3": "from fallback"},
	}

	svc := NewService(source, audio, []stt.Provider{primary, fallback}, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "from fallback" {
		t.Errorf("Text = %q, want transcript from the fallback provider", got.Text)
	}
	if len(primary.calls) != 1 || len(fallback.calls) != 1 {
		t.Errorf("provider calls: primary=%d fallback=%d, want 1 each", len(primary.calls), len(fallback.calls))
	}
}

func TestFetchChunkedTranscriptionOrder(t *testing.T) {
	source := &fakeSource{info: &youtube.VideoInfo{}}
	audio := &fakeAudio{
		sizeMB:     40,
		chunkNames: []string{"part1.mp3", "part2.mp3", "part3.mp3"},
	}
	// part2 has no transcript on either provider and is excluded.
	primary := &fakeProvider{
		name: "primary",
		texts: map[string]string{
			"part1.mp3": "first",
			"part3.mp3": "third",
		},
	}
	fallback := &fakeProvider{name: "fallback", err: fmt.Errorf("unavailable")}

	svc := NewService(source, audio, []stt.Provider{primary, fallback}, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "first third" {
		t.Errorf("Text = %q, want space-joined successful chunks in order", got.Text)
	}
	if audio.splitCalls != 1 {
		t.Errorf("Split called %d times, want 1", audio.splitCalls)
	}
	if audio.compressCalls != 1 {
		t.Errorf("Compress called %d times, want 1 for a file above the threshold", audio.compressCalls)
	}
	if len(primary.calls) != 3 {
		t.Errorf("primary attempted %d chunks, want 3", len(primary.calls))
	}
}

func TestFetchAllChunksFail(t *testing.T) {
	source := &fakeSource{info: &youtube.VideoInfo{}}
	audio := &fakeAudio{sizeMB: 5}
	primary := &fakeProvider{name: "primary", err: fmt.Errorf("down")}
	fallback := &fakeProvider{name: "fallback", err: fmt.Errorf("also down")}

	svc := NewService(source, audio, []stt.Provider{primary, fallback}, testConfig(), t.TempDir())

	if _, err := svc.Fetch(context.Background(), "vid12345678", "es"); err == nil {
		t.Fatal("Fetch() expected error when every provider fails")
	}
}

func TestFetchNoContentAvailable(t *testing.T) {
	source := &fakeSource{
		info:     &youtube.VideoInfo{},
		audioErr: fmt.Errorf("no formats found"),
	}

	svc := NewService(source, &fakeAudio{}, nil, testConfig(), t.TempDir())

	if _, err := svc.Fetch(context.Background(), "vid12345678", "es"); err == nil {
		t.Fatal("Fetch() expected error when neither captions nor audio exist")
	}
}

func TestFetchMetadataFailureFallsToAudio(t *testing.T) {
	source := &fakeSource{infoErr: fmt.Errorf("metadata unavailable")}
	audio := &fakeAudio{sizeMB: 5}
	primary := &fakeProvider{
		name:  "primary",
		texts: map[string]string{"vid12345678.mp3": "recovered"},
	}

	svc := NewService(source, audio, []stt.Provider{primary}, testConfig(), t.TempDir())

	got, err := svc.Fetch(context.Background(), "vid12345678", "es")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.Text != "recovered" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestCaptionCandidatesOrder(t *testing.T) {
	info := &youtube.VideoInfo{
		Subtitles: map[string][]youtube.CaptionTrack{
			"es": track("manual-es"),
			"en": track("manual-en"),
		},
		AutoCaptions: map[string][]youtube.CaptionTrack{
			"es": track("auto-es"),
			"en": track("auto-en"),
		},
	}

	candidates := captionCandidates(info, "es")
	want := []string{"manual-es", "manual-en", "auto-es", "auto-en"}

	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for i, w := range want {
		if candidates[i].track.URL != w {
			t.Errorf("candidate[%d] = %q, want %q", i, candidates[i].track.URL, w)
		}
	}

	// English requests must not produce duplicate candidates.
	enOnly := captionCandidates(info, "en")
	if len(enOnly) != 2 {
		t.Errorf("got %d candidates for English, want 2", len(enOnly))
	}
}

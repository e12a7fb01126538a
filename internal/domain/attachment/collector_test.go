package attachment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type scriptedUploader struct {
	mu    sync.Mutex
	seq   int
	fail  map[string]error // by file name
	calls []string
}

func (u *scriptedUploader) Upload(ctx context.Context, f File, kind Kind) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, f.Name)
	if err, ok := u.fail[f.Name]; ok {
		return "", err
	}
	u.seq++
	return fmt.Sprintf("https://media/%s/%d-%s", kind, u.seq, f.Name), nil
}

func img(name string) File {
	return File{Name: name, ContentType: "image/jpeg", Data: []byte{0xff}}
}

func TestAddFilesFiltersNonImages(t *testing.T) {
	c := NewCollector()
	err := c.AddFiles(img("a.jpg"), File{Name: "doc.pdf", ContentType: "application/pdf"})
	if !errors.Is(err, ErrInvalidMediaKind) {
		t.Fatalf("err = %v, want ErrInvalidMediaKind when any entry is rejected", err)
	}
	if got := c.Pending(); len(got) != 1 || got[0].Name != "a.jpg" {
		t.Fatalf("pending = %v, valid files must stay staged", got)
	}

	c = NewCollector()
	if err := c.AddFiles(img("a.jpg"), img("b.png")); err != nil {
		t.Fatalf("all-image batch: %v", err)
	}
	if err := c.AddFiles(File{Name: "x.txt", ContentType: "text/plain"}); !errors.Is(err, ErrInvalidMediaKind) {
		t.Fatalf("err = %v, want ErrInvalidMediaKind when nothing valid remained", err)
	}
}

func TestRecordingToggleReplacesClip(t *testing.T) {
	c := NewCollector()
	if err := c.StopRecording(File{}); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("err = %v, want ErrNotRecording", err)
	}
	if err := c.StartRecording(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.StartRecording(); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("err = %v, want ErrAlreadyRecording", err)
	}
	if err := c.StopRecording(File{Name: "take1.webm", ContentType: "audio/webm"}); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// a second take replaces the first, never stacks
	if err := c.StartRecording(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := c.StopRecording(File{Name: "take2.webm", ContentType: "audio/webm"}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	clip, ok := c.Audio()
	if !ok || clip.Name != "take2.webm" {
		t.Fatalf("audio = %v %v, want only the last take", clip, ok)
	}
}

func TestCommitNothingStaged(t *testing.T) {
	c := NewCollector()
	if _, err := c.Commit(context.Background(), &scriptedUploader{}); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("err = %v, want ErrNothingStaged", err)
	}
}

func TestCommitFullSuccessClearsStage(t *testing.T) {
	c := NewCollector()
	if err := c.AddFiles(img("a.jpg"), img("b.png")); err != nil {
		t.Fatalf("add: %v", err)
	}
	c.SetDetails("frente de la casa")
	if err := c.StartRecording(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.StopRecording(File{Name: "nota.webm", ContentType: "audio/webm"}); err != nil {
		t.Fatalf("stop: %v", err)
	}

	up := &scriptedUploader{}
	out, err := c.Commit(context.Background(), up)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d attachments, want 3", len(out))
	}
	if out[0].Kind != KindImage || out[2].Kind != KindAudio {
		t.Fatalf("attachments out of staging order: %v", out)
	}
	for _, a := range out {
		if a.Details != "frente de la casa" {
			t.Fatalf("details not carried: %v", a)
		}
	}
	if len(c.Pending()) != 0 {
		t.Fatal("stage should be empty after full success")
	}
	if _, ok := c.Audio(); ok {
		t.Fatal("audio should be cleared after full success")
	}
	if c.Details() != "" {
		t.Fatal("details should reset after full success")
	}
}

func TestCommitPartialFailureKeepsOnlyFailed(t *testing.T) {
	c := NewCollector()
	if err := c.AddFiles(img("a.jpg"), img("b.png")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.StartRecording(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.StopRecording(File{Name: "nota.webm", ContentType: "audio/webm"}); err != nil {
		t.Fatalf("stop: %v", err)
	}

	bad := errors.New("audio rejected upstream")
	up := &scriptedUploader{fail: map[string]error{"nota.webm": bad}}

	out, err := c.Commit(context.Background(), up)
	if !errors.Is(err, bad) {
		t.Fatalf("err = %v, want the audio failure surfaced", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d attachments, successes must not be rolled back", len(out))
	}
	if len(up.calls) != 3 {
		t.Fatalf("uploader called %d times, want every job attempted", len(up.calls))
	}
	if len(c.Pending()) != 0 {
		t.Fatal("successful images must leave the stage")
	}
	if _, ok := c.Audio(); !ok {
		t.Fatal("failed audio must stay staged for retry")
	}

	// retry succeeds and finally drains the stage
	up.fail = nil
	out, err = c.Commit(context.Background(), up)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(out) != 1 || out[0].Kind != KindAudio {
		t.Fatalf("retry result = %v, want just the audio clip", out)
	}
	if _, ok := c.Audio(); ok {
		t.Fatal("audio should be cleared after successful retry")
	}
}

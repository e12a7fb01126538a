package attachment

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidMediaKind = errors.New("only image files are accepted")
	ErrNothingStaged    = errors.New("no staged media to upload")
	ErrAlreadyRecording = errors.New("audio recording already in progress")
	ErrNotRecording     = errors.New("no audio recording in progress")
)

// Uploader hands a staged file to the media store and returns its
// retrieval URL.
type Uploader interface {
	Upload(ctx context.Context, f File, kind Kind) (string, error)
}

// Collector stages images and at most one audio clip before they are
// uploaded and attached to a quote. A failed upload keeps its file staged;
// successes are never rolled back within the same batch.
type Collector struct {
	mu        sync.Mutex
	pending   []File
	audio     *File
	recording bool
	details   string
}

func NewCollector() *Collector { return &Collector{} }

// AddFiles stages the image files from the batch. Non-image entries are
// excluded; whenever any entry was rejected, or nothing valid remained,
// ErrInvalidMediaKind is returned so the caller can report it.
func (c *Collector) AddFiles(files ...File) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rejected := false
	accepted := 0
	for _, f := range files {
		if !f.IsImage() {
			rejected = true
			continue
		}
		c.pending = append(c.pending, f)
		accepted++
	}
	if rejected || accepted == 0 {
		return ErrInvalidMediaKind
	}
	return nil
}

func (c *Collector) RemoveFile(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.pending) {
		return
	}
	c.pending = append(c.pending[:i], c.pending[i+1:]...)
}

func (c *Collector) Pending() []File {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]File, len(c.pending))
	copy(out, c.pending)
	return out
}

func (c *Collector) SetDetails(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details = s
}

func (c *Collector) Details() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

func (c *Collector) StartRecording() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recording {
		return ErrAlreadyRecording
	}
	c.recording = true
	return nil
}

// StopRecording finalizes exactly one audio clip, replacing any prior
// unsent recording.
func (c *Collector) StopRecording(clip File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return ErrNotRecording
	}
	c.recording = false
	c.audio = &clip
	return nil
}

func (c *Collector) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *Collector) Audio() (File, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audio == nil {
		return File{}, false
	}
	return *c.audio, true
}

func (c *Collector) DiscardAudio() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audio = nil
}

type uploadJob struct {
	file File
	kind Kind
}

// Commit uploads every staged image plus the pending audio clip, if any.
// Uploads run concurrently and are all accounted for before the batch
// resolves. The returned attachments are the successful uploads in staging
// order; on partial failure they are still returned together with the
// joined upload errors, and only the failed files remain staged.
func (c *Collector) Commit(ctx context.Context, up Uploader) ([]Attachment, error) {
	c.mu.Lock()
	jobs := make([]uploadJob, 0, len(c.pending)+1)
	for _, f := range c.pending {
		jobs = append(jobs, uploadJob{file: f, kind: KindImage})
	}
	if c.audio != nil {
		jobs = append(jobs, uploadJob{file: *c.audio, kind: KindAudio})
	}
	details := c.details
	c.mu.Unlock()

	if len(jobs) == 0 {
		return nil, ErrNothingStaged
	}

	urls := make([]string, len(jobs))
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job uploadJob) {
			defer wg.Done()
			urls[i], errs[i] = up.Upload(ctx, job.file, job.kind)
		}(i, job)
	}
	wg.Wait()

	var out []Attachment
	for i, job := range jobs {
		if errs[i] != nil {
			continue
		}
		out = append(out, Attachment{URL: urls[i], Kind: job.kind, Details: details})
	}

	c.mu.Lock()
	var remaining []File
	var remainingAudio *File
	for i, job := range jobs {
		if errs[i] == nil {
			continue
		}
		if job.kind == KindAudio {
			clip := job.file
			remainingAudio = &clip
		} else {
			remaining = append(remaining, job.file)
		}
	}
	c.pending = remaining
	c.audio = remainingAudio
	if err := errors.Join(errs...); err != nil {
		c.mu.Unlock()
		return out, err
	}
	c.details = ""
	c.mu.Unlock()
	return out, nil
}

// Package library owns the in-memory experience list and its
// persistence. Every mutation goes through whole-operation entry
// points (process, upload, delete, rename, reset); the list itself is
// never handed out mutably. The Library is a single-owner type: it is
// not safe for concurrent writers, and callers must let one operation
// settle before starting the next.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MordecaiM24/meridian/internal/api"
	"github.com/MordecaiM24/meridian/internal/experience"
	"github.com/MordecaiM24/meridian/internal/transcript"
)

var (
	// ErrNotFound means no experience carries the requested id.
	ErrNotFound = errors.New("experience not found")
	// ErrEmptyName rejects a speaker rename to a blank name.
	ErrEmptyName = errors.New("speaker name is empty")
	// ErrNoTranscript means the service answered without inline JSON.
	ErrNoTranscript = errors.New("service returned no inline transcript")
)

// Client is the part of the API client the library drives.
type Client interface {
	EnsureServer(ctx context.Context, port int, host string) (api.EnsureResult, error)
	Process(ctx context.Context, opts api.ProcessOptions) (api.ProcessResult, error)
	Upload(ctx context.Context, path string, opts api.ProcessOptions) (api.ProcessResult, error)
}

// Storage persists the whole experience list.
type Storage interface {
	Load() ([]experience.Experience, error)
	Save([]experience.Experience) error
}

// Library sequences service calls, local mutation, and persistence.
type Library struct {
	client Client
	store  Storage

	experiences []experience.Experience
	status      Status
}

// New creates a library over the given client and storage.
func New(client Client, store Storage) *Library {
	return &Library{client: client, store: store, status: Status{State: StateIdle}}
}

// Hydrate loads the persisted list. Called once at startup.
func (l *Library) Hydrate() error {
	experiences, err := l.store.Load()
	if err != nil {
		l.setFailure(fmt.Sprintf("Could not load library: %v", err))
		return err
	}
	l.experiences = experiences
	return nil
}

// Experiences returns a copy of the list, most recent first.
func (l *Library) Experiences() []experience.Experience {
	out := make([]experience.Experience, len(l.experiences))
	copy(out, l.experiences)
	return out
}

// Get returns the experience with the given id.
func (l *Library) Get(id string) (experience.Experience, bool) {
	for _, exp := range l.experiences {
		if exp.ID == id {
			return exp, true
		}
	}
	return experience.Experience{}, false
}

// Len returns the number of experiences.
func (l *Library) Len() int { return len(l.experiences) }

// EnsureServer asks the service to bring up the whisper server.
func (l *Library) EnsureServer(ctx context.Context, port int, host string) error {
	l.setWorking("Starting whisper server...")
	result, err := l.client.EnsureServer(ctx, port, host)
	if err != nil {
		l.setFailure(fmt.Sprintf("Whisper server not available: %v", err))
		return err
	}
	l.setSuccess(fmt.Sprintf("Whisper server %s on port %d", result.Status, result.Port))
	return nil
}

// ProcessInput submits a path or URL for transcription and, on
// success, adds the resulting experience to the front of the list.
func (l *Library) ProcessInput(ctx context.Context, opts api.ProcessOptions) (experience.Experience, error) {
	l.setWorking(fmt.Sprintf("Processing %s...", opts.Input))

	result, err := l.client.Process(ctx, opts)
	if err != nil {
		l.setFailure(err.Error())
		return experience.Experience{}, err
	}
	return l.adopt(result)
}

// UploadFile uploads a local file for transcription and, on success,
// adds the resulting experience to the front of the list.
func (l *Library) UploadFile(ctx context.Context, path string, opts api.ProcessOptions) (experience.Experience, error) {
	l.setWorking(fmt.Sprintf("Uploading %s...", path))

	result, err := l.client.Upload(ctx, path, opts)
	if err != nil {
		l.setFailure(err.Error())
		return experience.Experience{}, err
	}
	return l.adopt(result)
}

// adopt turns a process/upload result into an experience and prepends
// it. A save failure here is deliberately non-fatal to the in-memory
// list: the fetched transcript is worth more than the disk write, so
// the experience stays and the status reports the degraded outcome.
func (l *Library) adopt(result api.ProcessResult) (experience.Experience, error) {
	if result.Data == nil {
		l.setFailure(ErrNoTranscript.Error())
		return experience.Experience{}, ErrNoTranscript
	}

	tr := transcript.FromValue(*result.Data)
	exp := experience.New(tr, result.OutputFile)

	l.experiences = append([]experience.Experience{exp}, l.experiences...)

	if err := l.store.Save(l.experiences); err != nil {
		l.setFailure(fmt.Sprintf("Created %q but not saved: %v", exp.Title, err))
		return exp, fmt.Errorf("persist library: %w", err)
	}

	l.setSuccess(fmt.Sprintf("Processed %q", exp.Title))
	return exp, nil
}

// Delete removes an experience by id. The removal only commits if the
// save succeeds; otherwise the experience is restored at its original
// index.
func (l *Library) Delete(id string) error {
	index := l.indexOf(id)
	if index < 0 {
		l.setFailure(ErrNotFound.Error())
		return ErrNotFound
	}

	l.setWorking("Deleting...")

	removed := l.experiences[index]
	if err := l.mutate(
		func() {
			l.experiences = append(l.experiences[:index:index], l.experiences[index+1:]...)
		},
		func() {
			rest := append([]experience.Experience{removed}, l.experiences[index:]...)
			l.experiences = append(l.experiences[:index:index], rest...)
		},
	); err != nil {
		return err
	}

	l.setSuccess(fmt.Sprintf("Deleted %q", removed.Title))
	return nil
}

// RenameSpeaker replaces the name of one speaker inside one
// experience's transcript. Derived metadata is left untouched. The
// mutation only commits if the save succeeds.
func (l *Library) RenameSpeaker(id, speakerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		l.setFailure(ErrEmptyName.Error())
		return ErrEmptyName
	}

	index := l.indexOf(id)
	if index < 0 {
		l.setFailure(ErrNotFound.Error())
		return ErrNotFound
	}

	l.setWorking("Renaming speaker...")

	original := l.experiences[index]
	if err := l.mutate(
		func() {
			l.experiences[index] = withSpeakerName(original, speakerID, name)
		},
		func() {
			l.experiences[index] = original
		},
	); err != nil {
		return err
	}

	l.setSuccess(fmt.Sprintf("Renamed speaker to %q", name))
	return nil
}

// mutate is the shared commit discipline for mutations of
// already-durable state: apply the change, persist the whole list, and
// restore the snapshot when persistence fails.
func (l *Library) mutate(apply, restore func()) error {
	apply()
	if err := l.store.Save(l.experiences); err != nil {
		restore()
		wrapped := fmt.Errorf("persist library: %w", err)
		l.setFailure(wrapped.Error())
		return wrapped
	}
	return nil
}

// withSpeakerName returns a copy of exp whose transcript has the given
// speaker entry renamed. The speakers map is copied, never mutated in
// place, so the caller's snapshot stays valid for rollback.
func withSpeakerName(exp experience.Experience, speakerID, name string) experience.Experience {
	speakers := make(map[string]transcript.Speaker, len(exp.Transcript.Speakers)+1)
	for id, sp := range exp.Transcript.Speakers {
		speakers[id] = sp
	}

	entry, ok := speakers[speakerID]
	if !ok {
		entry = transcript.Speaker{ID: speakerID}
	}
	entry.Name = name
	speakers[speakerID] = entry

	exp.Transcript.Speakers = speakers
	return exp
}

func (l *Library) indexOf(id string) int {
	for i, exp := range l.experiences {
		if exp.ID == id {
			return i
		}
	}
	return -1
}

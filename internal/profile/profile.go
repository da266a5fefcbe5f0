// Package profile manages named rosters persisted in key-value storage.
package profile

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Storage keys.
const (
	KeyProfiles    = "classtools_profiles"
	KeyLastProfile = "classtools_lastProfile"
)

var (
	// ErrInvalidImport is returned for unparseable or empty profile text.
	ErrInvalidImport = eris.New("invalid profile import")
	// ErrUnknownProfile is returned when a profile name is not in the book.
	ErrUnknownProfile = eris.New("unknown profile")
)

// KV is the string key-value storage the book persists into.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Book is the set of saved profiles plus the last-used marker.
type Book struct {
	kv       KV
	log      zerolog.Logger
	profiles map[string][]string
	last     string
}

// Load reads the book from kv. Malformed stored JSON yields an empty book.
func Load(ctx context.Context, kv KV, log zerolog.Logger) (*Book, error) {
	b := &Book{kv: kv, log: log, profiles: map[string][]string{}}

	raw, ok, err := kv.Get(ctx, KeyProfiles)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read profiles")
	}
	if ok && raw != "" {
		var stored map[string][]string
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			log.Warn().Err(err).Msg("stored profiles are malformed, starting empty")
		} else if stored != nil {
			b.profiles = stored
		}
	}

	last, ok, err := kv.Get(ctx, KeyLastProfile)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read last profile")
	}
	if ok {
		b.last = last
	}
	log.Debug().Int("profiles", len(b.profiles)).Str("last", b.last).Msg("profiles loaded")
	return b, nil
}

// Save writes every profile and the last-used marker.
func (b *Book) Save(ctx context.Context) error {
	data, err := json.Marshal(b.profiles)
	if err != nil {
		return eris.Wrap(err, "failed to encode profiles")
	}
	if err := b.kv.Set(ctx, KeyProfiles, string(data)); err != nil {
		return eris.Wrap(err, "failed to save profiles")
	}
	if err := b.kv.Set(ctx, KeyLastProfile, b.last); err != nil {
		return eris.Wrap(err, "failed to save last profile")
	}
	return nil
}

// Names returns profile names sorted alphabetically.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.profiles))
	for name := range b.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of profiles.
func (b *Book) Len() int {
	return len(b.profiles)
}

// Get returns a copy of the roster stored under name.
func (b *Book) Get(name string) ([]string, bool) {
	students, ok := b.profiles[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), students...), true
}

// Last returns the last-used profile name if it still exists.
func (b *Book) Last() (string, bool) {
	if b.last == "" {
		return "", false
	}
	if _, ok := b.profiles[b.last]; !ok {
		return "", false
	}
	return b.last, true
}

// Import parses text, stores it under name, marks it last used and saves.
func (b *Book) Import(ctx context.Context, name, text string) ([]string, error) {
	name = trim(name)
	if name == "" {
		return nil, eris.Wrap(ErrInvalidImport, "profile name is empty")
	}
	students, err := Parse(text)
	if err != nil {
		return nil, err
	}
	b.profiles[name] = students
	b.last = name
	if err := b.Save(ctx); err != nil {
		return nil, err
	}
	b.log.Info().Str("profile", name).Int("students", len(students)).Msg("profile imported")
	return append([]string(nil), students...), nil
}

// Use marks name as last used, saves and returns its roster.
func (b *Book) Use(ctx context.Context, name string) ([]string, error) {
	students, ok := b.Get(name)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownProfile, "profile %q", name)
	}
	b.last = name
	if err := b.Save(ctx); err != nil {
		return nil, err
	}
	return students, nil
}

// Delete removes name and clears the last-used marker when it pointed at it.
func (b *Book) Delete(ctx context.Context, name string) error {
	if _, ok := b.profiles[name]; !ok {
		return eris.Wrapf(ErrUnknownProfile, "profile %q", name)
	}
	delete(b.profiles, name)
	if b.last == name {
		b.last = ""
	}
	if err := b.Save(ctx); err != nil {
		return err
	}
	b.log.Info().Str("profile", name).Msg("profile deleted")
	return nil
}

package autogroup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var pictureExts = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// DirSource is a ChatSource for one channel that keeps the chats it has
// been told about in memory and reads avatars from a directory laid out
// as <dir>/<channel id>/<chat uid>.<ext>.
type DirSource struct {
	channelID string
	dir       string

	mu    sync.RWMutex
	chats map[string]Chat
}

// NewDirSource creates a DirSource for channelID reading avatars from dir.
// An empty dir disables avatars.
func NewDirSource(channelID, dir string) *DirSource {
	return &DirSource{
		channelID: channelID,
		dir:       dir,
		chats:     make(map[string]Chat),
	}
}

// Remember records chat so later lookups return it.
func (s *DirSource) Remember(chat Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chat.UID] = chat
}

// Chat returns the remembered chat with uid.
func (s *DirSource) Chat(_ context.Context, uid string) (Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[uid]
	if !ok {
		return Chat{}, fmt.Errorf("%w: %s", ErrUnknownChat, ChatKey(s.channelID, uid))
	}
	return chat, nil
}

// ChatPicture opens the chat's avatar file.
func (s *DirSource) ChatPicture(_ context.Context, chat Chat) (io.ReadCloser, error) {
	if s.dir == "" {
		return nil, ErrNoPicture
	}
	base := filepath.Join(s.dir, filepath.Base(s.channelID), filepath.Base(chat.UID))
	for _, ext := range pictureExts {
		f, err := os.Open(base + ext)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ErrNoPicture
}

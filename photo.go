package autogroup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	"image/png"
	"io"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// minPhotoSide is the smallest side length of a group photo, in pixels.
const minPhotoSide = 256

// updateGroupPhoto copies the avatar of the external chat linked to master
// onto the Telegram group. Failures are logged, never returned.
func (m *Manager) updateGroupPhoto(ctx context.Context, api *tg.Client, chatID int64, master string) {
	if err := m.syncPhoto(ctx, api, chatID, master); err != nil {
		if errors.Is(err, ErrNoPicture) {
			m.logger.Warn("no profile picture provided from this chat", "chat_id", chatID)
			return
		}
		m.metrics.stepFailed(stepPhoto)
		m.logger.Error("failed to update group photo", "chat_id", chatID, "error", err)
	}
}

func (m *Manager) syncPhoto(ctx context.Context, api *tg.Client, chatID int64, master string) error {
	slaves, err := m.store.Slaves(ctx, master)
	if err != nil {
		return fmt.Errorf("failed to look up chats of %s: %w", master, err)
	}
	if len(slaves) != 1 {
		return fmt.Errorf("expected one chat linked to %s, got %d", master, len(slaves))
	}

	channelID, uid, err := ParseChatKey(slaves[0])
	if err != nil {
		return err
	}
	source, ok := m.sources[channelID]
	if !ok {
		return fmt.Errorf("no chat source for channel %q", channelID)
	}

	chat, err := source.Chat(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to get chat %s: %w", slaves[0], err)
	}

	picture, err := source.ChatPicture(ctx, chat)
	if err != nil {
		if picture != nil {
			picture.Close()
		}
		return err
	}
	if picture == nil {
		return ErrNoPicture
	}
	defer picture.Close()

	raw, err := io.ReadAll(picture)
	if err != nil {
		return fmt.Errorf("failed to read picture: %w", err)
	}

	data, filename, err := preparePhoto(raw)
	if err != nil {
		return err
	}

	if m.config.PhotoViaUser {
		return setChatPhotoAsUser(ctx, api, chatID, filename, data)
	}
	return m.bot.SetChatPhoto(ctx, botChatID(chatID), filename, data)
}

// preparePhoto upscales pictures smaller than minPhotoSide on either side
// and encodes them as PNG. Large enough pictures are returned unchanged.
func preparePhoto(raw []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode picture: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, "", fmt.Errorf("picture is empty")
	}
	if w >= minPhotoSide && h >= minPhotoSide {
		return raw, "photo." + format, nil
	}

	scale := float64(minPhotoSide) / float64(min(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, int(scale*float64(w)), int(scale*float64(h))))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, "", fmt.Errorf("failed to encode picture: %w", err)
	}
	return buf.Bytes(), "photo.png", nil
}

// setChatPhotoAsUser uploads data and sets it as the basic group's photo.
func setChatPhotoAsUser(ctx context.Context, api *tg.Client, chatID int64, filename string, data []byte) error {
	u := uploader.NewUploader(api)
	file, err := u.FromBytes(ctx, filename, data)
	if err != nil {
		return fmt.Errorf("failed to upload photo: %w", err)
	}

	_, err = api.MessagesEditChatPhoto(ctx, &tg.MessagesEditChatPhotoRequest{
		ChatID: chatID,
		Photo:  &tg.InputChatUploadedPhoto{File: file},
	})
	if err != nil {
		return fmt.Errorf("failed to set chat photo: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"io"
	"time"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	Logger "github.com/Luismorlan/tunemux/utils/log"
	"github.com/pkg/errors"
)

// slotAsset is a client file sent for a named slot, Asset is nil when the
// slot was left empty.
type slotAsset struct {
	Slot  string
	Asset *file_store.Asset
}

// preparedAsset is a client file with its final storage key.
type preparedAsset struct {
	Slot        string
	Key         string
	ContentType string
	Body        io.Reader
}

// prepareAssets computes the storage key of every supplied file. No upload
// happens before all names are known to be valid.
func prepareAssets(now time.Time, slots []slotAsset) ([]preparedAsset, error) {
	prepared := []preparedAsset{}
	for _, s := range slots {
		if s.Asset == nil {
			continue
		}
		key, err := file_store.RenameFile(s.Asset.Filename, now)
		if err != nil {
			return nil, BadRequest(MsgInvalidFilename)
		}
		prepared = append(prepared, preparedAsset{
			Slot:        s.Slot,
			Key:         key,
			ContentType: file_store.ContentTypeOf(s.Asset.Filename, s.Asset.ContentType),
			Body:        s.Asset.Body,
		})
	}
	return prepared, nil
}

// uploadAssets stores every asset and returns the URL per slot. The first
// failure aborts with UploadFailed and removes what was already stored.
func uploadAssets(ctx context.Context, store file_store.FileStore, assets []preparedAsset) (map[string]string, error) {
	urls := map[string]string{}
	for i, a := range assets {
		url, err := store.Store(ctx, a.Key, a.Body, a.ContentType)
		if err != nil {
			discardAssets(ctx, store, assets[:i])
			return nil, UploadFailed(errors.Wrapf(err, "slot %s", a.Slot))
		}
		urls[a.Slot] = url
	}
	return urls, nil
}

// discardAssets deletes stored assets no row refers to. It runs after a
// failure, so ctx may already be cancelled and errors are only logged.
func discardAssets(ctx context.Context, store file_store.FileStore, assets []preparedAsset) {
	ctx = context.WithoutCancel(ctx)
	for _, a := range assets {
		if err := store.Delete(ctx, a.Key); err != nil {
			Logger.Log.Warnf("fail to discard asset %s: %s", a.Key, err)
		}
	}
}

// songPatch merges a title change with freshly uploaded asset URLs.
func songPatch(title *string, urls map[string]string) model.SongPatch {
	patch := model.SongPatch{Title: title}
	if url, ok := urls[model.SlotSongFile]; ok {
		patch.SongURL = &url
	}
	if url, ok := urls[model.SlotSmallThumbnail]; ok {
		patch.SmallThumbnailURL = &url
	}
	if url, ok := urls[model.SlotLargeThumbnail]; ok {
		patch.LargeThumbnailURL = &url
	}
	return patch
}

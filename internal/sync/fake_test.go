package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	stdsync "sync"
	"time"

	"github.com/dmitrijs2005/songsync/internal/models"
	"github.com/dmitrijs2005/songsync/internal/remote"
)

// fakeFileStore is an in-memory remote.FileStore with call counters and
// per-object failure injection. Batch chunks run items concurrently, so all
// state is mutex-guarded.
type fakeFileStore struct {
	mu stdsync.Mutex

	objects map[string]*fakeObject
	folders map[string]string
	seq     int
	clock   time.Time

	uploadCalls      int
	batchUploadCalls int
	downloadCalls    int
	updateCalls      int
	deleteCalls      int
	listCalls        int

	failUploadName map[string]bool
	failGetID      map[string]bool
	batchUploadErr error
	listErr        error
}

type fakeObject struct {
	rec     models.RemoteObjectRecord
	content []byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{
		objects:        make(map[string]*fakeObject),
		folders:        make(map[string]string),
		clock:          time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		failUploadName: make(map[string]bool),
		failGetID:      make(map[string]bool),
	}
}

func (f *fakeFileStore) nextID(prefix string) string {
	f.seq++
	return prefix + "-" + strconv.Itoa(f.seq)
}

func (f *fakeFileStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeFileStore) FindOrCreateFolder(ctx context.Context, name, parentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := parentID + "/" + name
	if id, ok := f.folders[key]; ok {
		return id, nil
	}

	id := f.nextID("folder")
	f.folders[key] = id
	f.objects[id] = &fakeObject{rec: models.RemoteObjectRecord{
		ID:          id,
		Name:        name,
		ParentID:    parentID,
		ContentType: remote.FolderContentType,
	}}
	return id, nil
}

func (f *fakeFileStore) ListChildren(ctx context.Context, folderID string) ([]models.RemoteObjectRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []models.RemoteObjectRecord
	for _, obj := range f.objects {
		if obj.rec.ParentID == folderID {
			out = append(out, obj.rec)
		}
	}
	return out, nil
}

func (f *fakeFileStore) GetContent(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.downloadCalls++
	if f.failGetID[id] {
		return nil, errors.New("injected download failure")
	}
	obj, ok := f.objects[id]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return obj.content, nil
}

func (f *fakeFileStore) UploadObject(ctx context.Context, item remote.UploadItem) (*models.RemoteObjectRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadLocked(item)
}

func (f *fakeFileStore) uploadLocked(item remote.UploadItem) (*models.RemoteObjectRecord, error) {
	f.uploadCalls++
	if f.failUploadName[item.Name] {
		return nil, fmt.Errorf("injected upload failure for %q", item.Name)
	}

	rec := models.RemoteObjectRecord{
		ID:           f.nextID("obj"),
		Name:         item.Name,
		ParentID:     item.ParentID,
		ContentType:  item.ContentType,
		ModifiedTime: f.tick(),
		Properties:   item.Properties,
	}
	f.objects[rec.ID] = &fakeObject{rec: rec, content: item.Content}
	return &rec, nil
}

func (f *fakeFileStore) UpdateObjectContent(ctx context.Context, id string, content []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	obj, ok := f.objects[id]
	if !ok {
		return remote.ErrNotFound
	}
	obj.content = content
	obj.rec.ModifiedTime = f.tick()
	return nil
}

func (f *fakeFileStore) UpdateObjectMetadata(ctx context.Context, id string, properties map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	obj, ok := f.objects[id]
	if !ok {
		return remote.ErrNotFound
	}
	obj.rec.Properties = properties
	return nil
}

func (f *fakeFileStore) BatchUpload(ctx context.Context, items []remote.UploadItem) ([]*models.RemoteObjectRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchUploadCalls++
	if f.batchUploadErr != nil {
		return nil, f.batchUploadErr
	}

	out := make([]*models.RemoteObjectRecord, len(items))
	for i, item := range items {
		rec, err := f.uploadLocked(item)
		if err != nil {
			continue
		}
		out[i] = rec
	}
	return out, nil
}

func (f *fakeFileStore) BatchDelete(ctx context.Context, ids []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls++
	n := 0
	for _, id := range ids {
		if _, ok := f.objects[id]; ok {
			delete(f.objects, id)
			n++
		}
	}
	return n, nil
}

// fileCount returns the number of non-folder objects currently stored.
func (f *fakeFileStore) fileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, obj := range f.objects {
		if obj.rec.ContentType != remote.FolderContentType {
			n++
		}
	}
	return n
}

// seedObject places a pre-existing file object into the given folder,
// bypassing the upload path and counters.
func (f *fakeFileStore) seedObject(folderID, name, contentType string, props map[string]string, content []byte, modified time.Time) models.RemoteObjectRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := models.RemoteObjectRecord{
		ID:           f.nextID("obj"),
		Name:         name,
		ParentID:     folderID,
		ContentType:  contentType,
		ModifiedTime: modified,
		Properties:   props,
	}
	f.objects[rec.ID] = &fakeObject{rec: rec, content: content}
	return rec
}

// objectByName finds a stored object by display name.
func (f *fakeFileStore) objectByName(name string) *models.RemoteObjectRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, obj := range f.objects {
		if obj.rec.Name == name {
			rec := obj.rec
			return &rec
		}
	}
	return nil
}

// removeObject simulates an out-of-band deletion.
func (f *fakeFileStore) removeObject(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, id)
}

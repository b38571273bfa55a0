package service

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudata/samudata-api/internal/dto"
	"github.com/samudata/samudata-api/internal/models"
	appErrors "github.com/samudata/samudata-api/pkg/errors"
	"github.com/samudata/samudata-api/pkg/storage"
)

type ingestionFixture struct {
	svc      *IngestionService
	repo     *memFileRepo
	dir      string
	activity *activityStub
	limits   *limitsStub
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := newMemFileRepo()
	activity := &activityStub{}
	limits := &limitsStub{limits: models.UploadLimits{
		MaxFileSize:       1024,
		AllowedExtensions: map[string]struct{}{"pdf": {}, "csv": {}},
	}}
	lookups := lookupStub{categories: map[int]bool{1: true, 2: true}, regions: map[int]bool{3: true}}
	svc := NewIngestionService(repo, store, limits, lookups, activity, nil, nil, nil)
	return &ingestionFixture{svc: svc, repo: repo, dir: dir, activity: activity, limits: limits}
}

func (f *ingestionFixture) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func validUploadMeta() dto.UploadFileRequest {
	return dto.UploadFileRequest{
		Title:        "Produksi Tuna 2024",
		CategoryID:   1,
		RegionID:     3,
		UploaderName: "Sari",
		Tags:         "tuna, laut",
	}
}

func payloadOf(name, content string) UploadPayload {
	return UploadPayload{
		Filename: name,
		Size:     int64(len(content)),
		MimeType: "application/pdf",
		Content:  strings.NewReader(content),
	}
}

func TestIngestionUploadStoresRecordAndLogs(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := models.WithActor(context.Background(), models.Actor{IPAddress: "10.1.1.1", UserAgent: "test-agent"})

	id, err := f.svc.Upload(ctx, validUploadMeta(), payloadOf("Laporan.PDF", "hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rec, err := f.repo.GetActive(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", rec.FileHash)
	assert.Equal(t, "Laporan.PDF", rec.OriginalFilename)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}_\d+\.pdf$`), rec.Filename)
	assert.NotEqual(t, rec.OriginalFilename, rec.Filename)
	assert.Equal(t, models.StringList{"tuna", "laut"}, rec.Tags)
	assert.Equal(t, "10.1.1.1", rec.Metadata["ip_address"])
	assert.Equal(t, 0, rec.DownloadCount)
	assert.False(t, rec.UploadDate.IsZero())

	assert.Equal(t, []string{rec.Filename}, f.storedFiles(t))
	require.Equal(t, 1, f.activity.count(models.AccessActionUpload))
	assert.Equal(t, id, *f.activity.entries[0].fileID)
	assert.Equal(t, "test-agent", f.activity.entries[0].actor.UserAgent)
}

func TestIngestionRejectsIdenticalContent(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, validUploadMeta(), payloadOf("a.pdf", "same bytes"))
	require.NoError(t, err)
	before := f.repo.activeCount()

	_, err = f.svc.Upload(ctx, validUploadMeta(), payloadOf("b.pdf", "same bytes"))
	require.ErrorIs(t, err, appErrors.ErrDuplicate)
	assert.Equal(t, before, f.repo.activeCount())
	assert.Len(t, f.storedFiles(t), 1)
	assert.Equal(t, 1, f.activity.count(models.AccessActionUpload))
}

func TestIngestionAllowsContentOfDeletedFile(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	id, err := f.svc.Upload(ctx, validUploadMeta(), payloadOf("a.pdf", "recycled"))
	require.NoError(t, err)
	require.NoError(t, f.repo.SoftDelete(ctx, id))

	_, err = f.svc.Upload(ctx, validUploadMeta(), payloadOf("a.pdf", "recycled"))
	require.NoError(t, err)
}

// hashBlindRepo never reports an existing hash, so only the insert can detect the duplicate.
type hashBlindRepo struct{ *memFileRepo }

func (r hashBlindRepo) ExistsActiveHash(ctx context.Context, hash string) (bool, error) {
	return false, nil
}

func TestIngestionMapsUniqueIndexViolationToDuplicate(t *testing.T) {
	f := newIngestionFixture(t)
	f.svc.repo = hashBlindRepo{f.repo}
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, validUploadMeta(), payloadOf("a.pdf", "racing"))
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, validUploadMeta(), payloadOf("b.pdf", "racing"))
	require.ErrorIs(t, err, appErrors.ErrDuplicate)
	assert.Len(t, f.storedFiles(t), 1)
	assert.Equal(t, 1, f.repo.activeCount())
}

func TestIngestionValidationHasNoSideEffects(t *testing.T) {
	cases := []struct {
		name    string
		meta    func() dto.UploadFileRequest
		payload UploadPayload
		message string
	}{
		{
			name:    "disallowed extension",
			meta:    validUploadMeta,
			payload: payloadOf("setup.exe", "MZ"),
			message: "File type not allowed",
		},
		{
			name:    "oversize",
			meta:    validUploadMeta,
			payload: payloadOf("big.pdf", strings.Repeat("x", 2048)),
			message: "File size exceeds maximum allowed size of 1024 bytes",
		},
		{
			name: "size checked before transport error",
			meta: validUploadMeta,
			payload: UploadPayload{
				Filename:     "big.pdf",
				Size:         4096,
				TransportErr: errors.New("unexpected EOF"),
			},
			message: "File size exceeds maximum allowed size of 1024 bytes",
		},
		{
			name: "extension checked before transport error",
			meta: validUploadMeta,
			payload: UploadPayload{
				Filename:     "run.sh",
				Size:         4,
				TransportErr: errors.New("unexpected EOF"),
			},
			message: "File type not allowed",
		},
		{
			name: "transport error",
			meta: validUploadMeta,
			payload: UploadPayload{
				Filename:     "ok.pdf",
				Size:         4,
				TransportErr: errors.New("unexpected EOF"),
			},
			message: "File upload error",
		},
		{
			name:    "missing title",
			meta:    func() dto.UploadFileRequest { m := validUploadMeta(); m.Title = ""; return m },
			payload: payloadOf("a.pdf", "data"),
			message: "title is required",
		},
		{
			name:    "unknown category",
			meta:    func() dto.UploadFileRequest { m := validUploadMeta(); m.CategoryID = 99; return m },
			payload: payloadOf("a.pdf", "data"),
			message: "category_id does not exist",
		},
		{
			name:    "unknown region",
			meta:    func() dto.UploadFileRequest { m := validUploadMeta(); m.RegionID = 42; return m },
			payload: payloadOf("a.pdf", "data"),
			message: "region_id does not exist",
		},
		{
			name:    "no file",
			meta:    validUploadMeta,
			payload: UploadPayload{},
			message: "No file uploaded",
		},
		{
			name:    "uploader name wider than column",
			meta:    func() dto.UploadFileRequest { m := validUploadMeta(); m.UploaderName = strings.Repeat("n", 151); return m },
			payload: payloadOf("a.pdf", "data"),
			message: "uploader_name must be at most 150 characters",
		},
		{
			name:    "filename wider than column",
			meta:    validUploadMeta,
			payload: payloadOf(strings.Repeat("f", 252)+".pdf", "data"),
			message: "Filename must be at most 255 characters",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newIngestionFixture(t)
			_, err := f.svc.Upload(context.Background(), tc.meta(), tc.payload)
			require.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
			assert.Empty(t, f.storedFiles(t))
			assert.Equal(t, 0, f.repo.activeCount())
			assert.Empty(t, f.activity.entries)
		})
	}
}

func TestIngestionRejectsLongUploaderEmail(t *testing.T) {
	f := newIngestionFixture(t)
	meta := validUploadMeta()
	meta.UploaderEmail = strings.Repeat("a", 140) + "@example.com"

	_, err := f.svc.Upload(context.Background(), meta, payloadOf("a.pdf", "data"))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, appErrors.FromError(err).Message, "uploader_email")
	assert.Empty(t, f.storedFiles(t))
	assert.Equal(t, 0, f.repo.activeCount())
}

func TestIngestionAcceptsNamesAtColumnWidth(t *testing.T) {
	f := newIngestionFixture(t)
	meta := validUploadMeta()
	meta.UploaderName = strings.Repeat("n", 150)
	name := strings.Repeat("é", 251) + ".pdf"

	id, err := f.svc.Upload(context.Background(), meta, payloadOf(name, "data"))
	require.NoError(t, err)
	rec, err := f.repo.GetActive(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, name, rec.OriginalFilename)
	assert.Len(t, rec.UploaderName, 150)
}

func TestIngestionFallsBackForOverlongMimeType(t *testing.T) {
	f := newIngestionFixture(t)
	payload := payloadOf("a.pdf", "data")
	payload.MimeType = "application/" + strings.Repeat("x", 400)

	id, err := f.svc.Upload(context.Background(), validUploadMeta(), payload)
	require.NoError(t, err)
	rec, err := f.repo.GetActive(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", rec.MimeType)
}

func TestIngestionRemovesPayloadWhenInsertFails(t *testing.T) {
	f := newIngestionFixture(t)
	f.repo.createErr = errors.New("connection reset")

	_, err := f.svc.Upload(context.Background(), validUploadMeta(), payloadOf("a.pdf", "data"))
	require.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, "Failed to save file metadata", appErrors.FromError(err).Message)
	assert.Empty(t, f.storedFiles(t))
}

func TestIngestionIgnoresActivityLogFailure(t *testing.T) {
	f := newIngestionFixture(t)
	f.activity.err = errors.New("log table locked")

	id, err := f.svc.Upload(context.Background(), validUploadMeta(), payloadOf("a.pdf", "data"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestIngestionReadsLimitsOnEveryUpload(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, validUploadMeta(), payloadOf("a.pdf", "one"))
	require.NoError(t, err)

	f.limits.limits.AllowedExtensions = map[string]struct{}{"csv": {}}
	_, err = f.svc.Upload(ctx, validUploadMeta(), payloadOf("b.pdf", "two"))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 2, f.limits.calls)
}

func TestIngestionRejectsBadUploadDate(t *testing.T) {
	f := newIngestionFixture(t)
	meta := validUploadMeta()
	meta.UploadDate = "01/02/2024"

	_, err := f.svc.Upload(context.Background(), meta, payloadOf("a.pdf", "data"))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.storedFiles(t))
}

package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mchou/campnook/internal/database"
	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/store"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}

	plain := []byte(`{"trip":"無人島移居計畫"}`)
	blob, err := Encrypt(plain, "correct horse", salt)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(blob, []byte("無人島")) {
		t.Fatal("ciphertext leaks plaintext")
	}

	got, err := Decrypt(blob, "correct horse")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: %q", got)
	}

	if _, err := Decrypt(blob, "wrong passphrase"); err == nil {
		t.Fatal("wrong passphrase must not decrypt")
	}
	if _, err := Decrypt([]byte("short"), "x"); err == nil {
		t.Fatal("truncated blob must error")
	}
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func testManager(t *testing.T) (*Manager, *fakeS3, *store.BackupStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bs := store.NewBackupStore(db)
	ss := store.NewSettingsStore(db)
	source := func() *model.AppData {
		return &model.AppData{
			Members:     []model.Member{{ID: "m1", Name: "爸爸"}},
			LastUpdated: 777,
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := NewManager(Config{
		S3:         S3Config{Bucket: "camp", AccessKey: "ak", SecretKey: "sk"},
		Passphrase: "family secret",
		Prefix:     "trips",
	}, source, bs, ss, logger, nil)

	fake := &fakeS3{}
	m.client = fake
	return m, fake, bs
}

func TestManagerRunNowAndRestore(t *testing.T) {
	m, fake, bs := testManager(t)

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}

	record, err := bs.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q", record.Status)
	}
	if record.SizeBytes == 0 {
		t.Error("size not recorded")
	}

	key := "trips/" + record.Filename
	if _, ok := fake.objects[key]; !ok {
		t.Fatalf("object %q not uploaded, have %v", key, fake.objects)
	}

	got, err := m.Restore(context.Background(), record.Filename)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got.LastUpdated != 777 || len(got.Members) != 1 {
		t.Errorf("restored document wrong: %+v", got)
	}

	if st := m.Status(); st.State != StateIdle || st.LastBackup == nil {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(Config{}, func() *model.AppData { return &model.AppData{} },
		store.NewBackupStore(db), store.NewSettingsStore(db), logger, nil)

	if m.Status().State != StateDisabled {
		t.Fatalf("state = %q", m.Status().State)
	}
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatal("expected error from disabled manager")
	}
}

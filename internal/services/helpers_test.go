// internal/services/helpers_test.go
package services

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Shuttle{},
		&models.Application{},
		&models.NDARequest{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestShuttle(t *testing.T, db *gorm.DB, process string) *models.Shuttle {
	t.Helper()
	shuttle := &models.Shuttle{
		Process:           process,
		TapeOutDate:       time.Now().AddDate(0, 2, 0),
		WaferDeliveryDate: time.Now().AddDate(0, 5, 0),
	}
	if err := db.Create(shuttle).Error; err != nil {
		t.Fatalf("failed to create test shuttle: %v", err)
	}
	return shuttle
}

func sessionFor(user *models.User) models.Session {
	return models.Session{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxSizeBytes:      100 * 1024 * 1024,
		AllowedExtensions: []string{".gds", ".gds.gz", ".oas", ".tgz", ".tar", ".tar.gz", ".zip"},
	}
}

// fakeStorage is an in-memory ObjectStorage. Signed download URLs are
// urlBase + "/" + key so tests can point them at an httptest server.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	signErr   error
	urlBase   string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string][]byte),
		urlBase: "https://storage.test",
	}
}

func (f *fakeStorage) Upload(key string, body io.ReadSeeker, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) SignedDownloadURL(key string, expiry time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return f.urlBase + "/" + key, nil
}

func (f *fakeStorage) SignedUploadURL(key string, expiry time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return f.urlBase + "/upload/" + key, nil
}

func (f *fakeStorage) get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeMailer records sent messages.
type fakeMailer struct {
	mu       sync.Mutex
	messages []sentMail
	sendErr  error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeMailer) sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMail, len(f.messages))
	copy(out, f.messages)
	return out
}

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/tenmin/investcast/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrAudioNotFound     = errors.New("audio file not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrFileTooLarge      = errors.New("audio file too large")
)

// MaxUploadSize caps episode uploads at 50 MB.
const MaxUploadSize = 50 << 20

var allowedExtensions = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".ogg": "audio/ogg",
	".m4a": "audio/mp4",
}

var fileNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type SavedAudio struct {
	FileName  string `json:"file_name"`
	Size      int64  `json:"size"`
	PublicURL string `json:"url"`
}

// Store keeps episode audio files in a single flat directory on disk.
// Stored names carry an upload timestamp prefix, so re-uploading the
// same file never clobbers an already published episode.
type Store struct {
	rootPath      string
	publicBaseURL string
	mutex         sync.Mutex
}

func NewStore(rootPath, publicBaseURL string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create audio root: %w", err)
	}
	return &Store{
		rootPath:      rootPath,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *Store) Save(ctx context.Context, fileName string, size int64, src io.Reader) (_ *SavedAudio, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "audioStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	span.SetAttributes(attribute.String("file.name", fileName))
	span.SetAttributes(attribute.Int64("file.size", size))

	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	cleanName, err := sanitizeFileName(fileName)
	if err != nil {
		return nil, err
	}

	storedName := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), cleanName)
	storedPath := path.Join(s.rootPath, storedName)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	// copy one byte over the cap to detect an understated size header
	written, err := io.Copy(dst, io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		s.removeStored(storedPath)
		return nil, err
	}
	if written > MaxUploadSize {
		s.removeStored(storedPath)
		return nil, ErrFileTooLarge
	}

	log.Debugf("audio store: saved new file: %s [%d bytes]", storedName, written)

	return &SavedAudio{
		FileName:  storedName,
		Size:      written,
		PublicURL: s.PublicURL(storedName),
	}, nil
}

// FilePath resolves a stored name to its on-disk path. Names with path
// separators or traversal segments never resolve.
func (s *Store) FilePath(fileName string) (string, error) {
	if fileName == "" || fileName != path.Base(fileName) || strings.Contains(fileName, "..") {
		return "", ErrAudioNotFound
	}

	filePath := filepath.Join(s.rootPath, fileName)
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return "", ErrAudioNotFound
	}

	return filePath, nil
}

func (s *Store) Delete(ctx context.Context, fileName string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "audioStore.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	filePath, err := s.FilePath(fileName)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(filePath); err != nil {
		return err
	}

	log.Debugf("audio store: file [%s] deleted", fileName)
	return nil
}

func (s *Store) PublicURL(storedName string) string {
	return fmt.Sprintf("%s/audio/%s", s.publicBaseURL, storedName)
}

// ContentTypeFor maps a stored name to its audio content type.
func ContentTypeFor(fileName string) (string, bool) {
	contentType, ok := allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
	return contentType, ok
}

func sanitizeFileName(fileName string) (string, error) {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedFormat
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "-")
	name = fileNameCleaner.ReplaceAllString(name, "")
	if name == "" || strings.Trim(name, ".") == "" {
		return "", ErrUnsupportedFormat
	}

	return name + ext, nil
}

func (s *Store) removeStored(storedPath string) {
	if removeErr := os.Remove(storedPath); removeErr != nil {
		log.Errorf("failed to remove incomplete upload %s: %s", storedPath, removeErr)
	}
}

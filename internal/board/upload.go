package board

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"jobportal/internal/metrics"
	"jobportal/internal/scan"
)

// Upload is a file received from a form.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// resumeTypes maps the accepted sniffed types onto the extension used in object keys.
var resumeTypes = []struct {
	mime string
	ext  string
}{
	{"application/pdf", ".pdf"},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
	{"application/msword", ".doc"},
	{"application/x-ole-storage", ".doc"},
	{"text/rtf", ".rtf"},
	{"text/plain", ".txt"},
}

type storedResume struct {
	key         string
	contentType string
}

// readResume loads and checks an upload. Problems are reported against field.
func (s *Service) readResume(ctx context.Context, field string, up *Upload) ([]byte, string, string, error) {
	if up == nil || up.Open == nil {
		return nil, "", "", FieldErrors{field: "This field is required."}
	}
	if up.Size > s.maxResumeBytes {
		return nil, "", "", FieldErrors{field: s.tooLargeMessage()}
	}

	rc, err := up.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxResumeBytes+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", "", FieldErrors{field: "The submitted file is empty."}
	}
	if int64(len(data)) > s.maxResumeBytes {
		return nil, "", "", FieldErrors{field: s.tooLargeMessage()}
	}

	detected := mimetype.Detect(data)
	contentType, ext := "", ""
	for _, t := range resumeTypes {
		if detected.Is(t.mime) {
			contentType, ext = t.mime, t.ext
			break
		}
	}
	if contentType == "" {
		return nil, "", "", FieldErrors{field: "Upload a PDF, Word, RTF or plain text document."}
	}

	if s.scanner != nil {
		if err := s.scanner.Scan(ctx, bytes.NewReader(data)); err != nil {
			if errors.Is(err, scan.ErrInfected) {
				metrics.UploadsInfectedTotal.Inc()
				s.log(ctx).Warn("resume rejected by scanner", slog.String("filename", up.Filename), slog.Any("error", err))
				return nil, "", "", FieldErrors{field: "The uploaded file was rejected by the malware scanner."}
			}
			return nil, "", "", fmt.Errorf("scan resume: %w", err)
		}
	}

	return data, contentType, ext, nil
}

// storeResume validates up and writes it under resumes/<account>/<prefix><uuid><ext>.
func (s *Service) storeResume(ctx context.Context, field string, accountID uint, prefix string, up *Upload) (*storedResume, error) {
	data, contentType, ext, err := s.readResume(ctx, field, up)
	if err != nil {
		return nil, err
	}

	key := path.Join("resumes", fmt.Sprint(accountID), prefix+uuid.NewString()+ext)
	if err := s.storage.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	return &storedResume{key: key, contentType: contentType}, nil
}

// discard removes an object written during a request that did not commit.
func (s *Service) discard(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(context.WithoutCancel(ctx), key); err != nil {
		s.log(ctx).Error("delete orphaned resume failed", slog.String("object_key", key), slog.Any("error", err))
	}
}

func (s *Service) tooLargeMessage() string {
	return fmt.Sprintf("The file is too large (limit %s).", humanBytes(s.maxResumeBytes))
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

// downloadName is the filename offered when a resume is fetched.
func downloadName(username, key string) string {
	ext := path.Ext(key)
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '"' {
			return '_'
		}
		return r
	}, username)
	return name + "-resume" + ext
}

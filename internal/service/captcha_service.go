package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

// Easily confused letters (O, I, l) are excluded.
const captchaCharset = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz"

// CaptchaService issues short-lived verification codes and checks them on
// login. Codes are single use: verification consumes the stored code whether
// or not it matches.
type CaptchaService struct {
	cache   CacheRepository
	ttl     time.Duration
	length  int
	enabled bool
	logger  *zap.Logger
}

// NewCaptchaService constructs a CaptchaService.
func NewCaptchaService(cache CacheRepository, ttl time.Duration, length int, enabled bool, logger *zap.Logger) *CaptchaService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if length <= 0 {
		length = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptchaService{cache: cache, ttl: ttl, length: length, enabled: enabled, logger: logger}
}

// Enabled indicates whether captcha verification is required on login.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.enabled && s.cache != nil
}

// Issue generates a fresh captcha and stores its code under TTL.
func (s *CaptchaService) Issue(ctx context.Context) (*models.Captcha, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "captcha issuance is disabled")
	}

	code, err := randomCode(s.length)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate captcha")
	}

	captcha := &models.Captcha{
		ID:        uuid.NewString(),
		Text:      code,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.cache.Set(ctx, captchaKey(captcha.ID), code, s.ttl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store captcha")
	}
	return captcha, nil
}

// Verify consumes the stored code for the given id and compares it with the
// submitted one, case-insensitively. Expired, missing or mismatching codes all
// report the same invalid-captcha error.
func (s *CaptchaService) Verify(ctx context.Context, id, code string) error {
	if !s.Enabled() {
		return nil
	}
	if id == "" || code == "" {
		return appErrors.Clone(appErrors.ErrInvalidCaptcha, "")
	}

	var stored string
	if err := s.cache.GetDel(ctx, captchaKey(id), &stored); err != nil {
		if appErrors.Is(err, appErrors.ErrCacheMiss) {
			return appErrors.Clone(appErrors.ErrInvalidCaptcha, "")
		}
		s.logger.Warn("captcha lookup failed", zap.String("captcha_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify captcha")
	}

	if !strings.EqualFold(stored, code) {
		return appErrors.Clone(appErrors.ErrInvalidCaptcha, "")
	}
	return nil
}

func captchaKey(id string) string {
	return fmt.Sprintf("captcha:%s", id)
}

func randomCode(length int) (string, error) {
	max := big.NewInt(int64(len(captchaCharset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = captchaCharset[n.Int64()]
	}
	return string(b), nil
}

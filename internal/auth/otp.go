package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/notewell-backend/internal/users"
	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/db/models"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/mailer"
	"github.com/angelmondragon/notewell-backend/pkg/security"
	"github.com/angelmondragon/notewell-backend/pkg/types"
	"github.com/angelmondragon/notewell-backend/pkg/validation"
)

const (
	otpSentMessage     = "OTP sent successfully"
	invalidCodeMessage = "Invalid or expired OTP. Please request a new one."
)

var otpEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// RequestOTP stores a fresh code on the identity for email, creating the
// identity when it does not exist yet, and mails the code.
func (s *service) RequestOTP(ctx context.Context, req RequestOTPRequest) (*RequestOTPResponse, error) {
	email := users.NormalizeEmail(req.Email)
	if !otpEmailPattern.MatchString(email) {
		return nil, validation.Failed("Please provide a valid email address", types.Violations{"email": "must be a valid email"})
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	expiry := s.now().UTC().Add(s.otpCfg.TTL)

	identity, err := s.storeOTP(ctx, email, code, expiry)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, mailer.OTPMessage(email, code, s.otpCfg.TTL)); err != nil {
		logCtx := s.logg.WithIdentityID(ctx, identity.ID.String())
		s.logg.Error(logCtx, "auth.otp.delivery_failed", err)
		if s.otpCfg.RollbackOnDeliveryFailure {
			if _, clearErr := s.identities.ClearOTP(ctx, identity.ID, code); clearErr != nil {
				s.logg.Error(logCtx, "auth.otp.rollback_failed", clearErr)
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDelivery, err, "Failed to send OTP. Please try again.")
	}

	resp := &RequestOTPResponse{Message: otpSentMessage}
	if s.app.IsDev() {
		resp.OTP = code
	}
	return resp, nil
}

func (s *service) storeOTP(ctx context.Context, email, code string, expiry time.Time) (*models.Identity, error) {
	identity, err := s.identities.FindByEmail(ctx, email)
	if err == nil {
		if err := s.identities.SetOTP(ctx, identity.ID, code, expiry); err != nil {
			return nil, internalErr(err, "store otp")
		}
		return identity, nil
	}
	if !db.IsNotFound(err) {
		return nil, internalErr(err, "lookup identity")
	}

	identity, err = s.identities.Create(ctx, users.CreateIdentityDTO{
		Name:       localPart(email),
		Email:      email,
		OTPCode:    &code,
		OTPExpiry:  &expiry,
		AuthMethod: enums.AuthMethodOTP,
	})
	if err == nil {
		return identity, nil
	}
	if !db.IsUniqueViolation(err, "") {
		return nil, internalErr(err, "create identity")
	}

	// Lost a creation race for the same email; the row exists now.
	identity, err = s.identities.FindByEmail(ctx, email)
	if err != nil {
		return nil, internalErr(err, "lookup identity")
	}
	if err := s.identities.SetOTP(ctx, identity.ID, code, expiry); err != nil {
		return nil, internalErr(err, "store otp")
	}
	return identity, nil
}

// VerifyOTP consumes the pending code. The clear is conditional on the code
// still being stored, so only one of several concurrent verifications wins.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (res *AuthResult, err error) {
	defer func() { s.metrics.Observe(string(enums.AuthMethodOTP), err) }()

	req.Email = users.NormalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, internalErr(err, "lookup identity")
	}

	if identity.OTPCode == nil || identity.OTPExpiry == nil ||
		*identity.OTPCode != req.Code || identity.OTPExpiry.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCode, invalidCodeMessage)
	}

	cleared, err := s.identities.ClearOTP(ctx, identity.ID, req.Code)
	if err != nil {
		return nil, internalErr(err, "consume otp")
	}
	if !cleared {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCode, invalidCodeMessage)
	}
	identity.OTPCode = nil
	identity.OTPExpiry = nil

	return s.issue(identity)
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

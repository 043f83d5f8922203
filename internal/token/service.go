// Package token issues short-lived vendor credentials that let one uid
// join one room as a publisher. The credential bit format belongs to the
// vendor token builder and is not reimplemented here.
package token

import (
	"errors"
	"fmt"
	"time"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"

	"github.com/carelink/CareCall/internal/domain"
)

const DefaultTTL = time.Hour

var (
	ErrRoomRequired  = errors.New("room id is required")
	ErrNotConfigured = errors.New("app credentials are not configured")
)

// Credential is what a client needs to hand to the vendor SDK's join call.
// The app certificate never appears here.
type Credential struct {
	Token string               `json:"token"`
	UID   domain.ParticipantID `json:"uid"`
	AppID string               `json:"appId"`
}

// Service signs credentials with the configured app id/certificate pair.
// It is stateless; nothing issued is ever stored.
type Service struct {
	appID          string
	appCertificate string
	ttl            time.Duration
	randUID        func() domain.ParticipantID
}

func NewService(appID, appCertificate string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		appID:          appID,
		appCertificate: appCertificate,
		ttl:            ttl,
		randUID:        domain.RandomParticipantID,
	}
}

// Configured reports whether the credential pair is present. When it is
// not, Issue fails with ErrNotConfigured and the caller must surface that
// as a service problem, not a request problem.
func (s *Service) Configured() bool {
	return s.appID != "" && s.appCertificate != ""
}

// Issue signs a publisher credential for room, valid for the service TTL.
// When uid is nil a pseudorandom one in [0, MaxRandomUID) is assigned.
func (s *Service) Issue(room domain.RoomID, uid *domain.ParticipantID) (Credential, error) {
	if room == "" {
		return Credential{}, ErrRoomRequired
	}
	if !s.Configured() {
		return Credential{}, ErrNotConfigured
	}

	id := s.randUID()
	if uid != nil {
		id = *uid
	}

	tok, err := rtctokenbuilder.BuildTokenWithUid(
		s.appID, s.appCertificate, string(room),
		uint32(id), rtctokenbuilder.RolePublisher,
		uint32(s.ttl/time.Second),
	)
	if err != nil {
		return Credential{}, fmt.Errorf("build rtc token: %w", err)
	}
	return Credential{Token: tok, UID: id, AppID: s.appID}, nil
}

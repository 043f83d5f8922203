package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/carelink/CareCall/internal/domain"
	"github.com/carelink/CareCall/internal/token"
)

// TokenIssuer is the port the handler needs from the token service.
type TokenIssuer interface {
	Issue(room domain.RoomID, uid *domain.ParticipantID) (token.Credential, error)
}

type tokenRequest struct {
	ChannelName string  `json:"channelName"`
	UID         *uint32 `json:"uid"`
}

// handleToken issues a join credential. Request problems are 400,
// missing server credentials are 500 so the caller can tell "fix your
// request" apart from "service unavailable". The app certificate never
// appears in any response.
func handleToken(issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ChannelName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "channelName is required"})
			return
		}

		var uid *domain.ParticipantID
		if req.UID != nil {
			v := domain.ParticipantID(*req.UID)
			uid = &v
		}

		cred, err := issuer.Issue(domain.RoomID(req.ChannelName), uid)
		switch {
		case errors.Is(err, token.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Server not configured with AGORA_APP_ID and AGORA_APP_CERTIFICATE",
			})
		case err != nil:
			log.Error().Str("module", "adapters.http").Err(err).Msg("token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to generate token",
				"details": err.Error(),
			})
		default:
			log.Info().Str("module", "adapters.http").
				Str("room", req.ChannelName).
				Uint32("uid", uint32(cred.UID)).
				Msg("issued token")
			c.JSON(http.StatusOK, cred)
		}
	}
}

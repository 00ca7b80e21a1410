package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
)

// RTCService, görüşme odasına katılım token'ı üretir.
// Sinyalleşme bizim socket'imizden, medya LiveKit SFU'dan akar.
type RTCService interface {
	// Token, verilen kanal için kullanıcıya özel katılım token'ı üretir.
	// ChannelName boşsa yeni bir oda adı türetilir.
	Token(userID, userName string, req *models.RTCTokenRequest) (*models.RTCTokenResponse, error)
}

type rtcService struct {
	url       string
	apiKey    string
	apiSecret string
	tokenTTL  time.Duration
}

// NewRTCService, constructor.
func NewRTCService(url, apiKey, apiSecret string, tokenTTLMinutes int) RTCService {
	return &rtcService{
		url:       url,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		tokenTTL:  time.Duration(tokenTTLMinutes) * time.Minute,
	}
}

func (s *rtcService) Token(userID, userName string, req *models.RTCTokenRequest) (*models.RTCTokenResponse, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return nil, fmt.Errorf("%w: rtc provider is not configured", pkg.ErrInternal)
	}

	channelName := req.ChannelName
	if channelName == "" {
		channelName = uuid.New().String()
	}
	callType := models.NormalizeCallType(req.CallType)

	at := auth.NewAccessToken(s.apiKey, s.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     channelName,
	}
	at.AddGrant(grant).
		SetIdentity(userID).
		SetName(userName).
		SetValidFor(s.tokenTTL)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to generate rtc token: %w", err)
	}

	return &models.RTCTokenResponse{
		Token:       token,
		URL:         s.url,
		ChannelName: channelName,
		CallType:    callType,
	}, nil
}

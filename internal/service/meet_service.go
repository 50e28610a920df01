package service

import (
	"context"
	"fmt"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/model"
	"skillxchange_backend/internal/util"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// MeetService 通过 Google Calendar 为学习会话生成 Meet 链接。
// 令牌按浏览器会话保存在内存里，进程重启即需重新授权
type MeetService struct {
	oauth  *oauth2.Config
	tokens map[string]*oauth2.Token
	mu     sync.RWMutex
}

func NewMeetService(cfg *config.MeetConfig) *MeetService {
	return &MeetService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		tokens: make(map[string]*oauth2.Token),
	}
}

func (s *MeetService) Configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

// NewSessionID 浏览器会话标识，写入 sessionId cookie
func (s *MeetService) NewSessionID() string {
	return model.GenerateUUID()
}

// AuthURL 授权地址，state 绑定浏览器会话
func (s *MeetService) AuthURL(sessionID string) string {
	return s.oauth.AuthCodeURL(sessionID, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback 用授权码换令牌并存入会话
func (s *MeetService) HandleCallback(ctx context.Context, sessionID, code string) error {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tokens[sessionID] = token
	s.mu.Unlock()
	return nil
}

func (s *MeetService) Authorized(sessionID string) bool {
	s.mu.RLock()
	token, ok := s.tokens[sessionID]
	s.mu.RUnlock()
	return ok && token.Valid()
}

type MeetResult struct {
	MeetLink string          `json:"meetLink"`
	Event    *calendar.Event `json:"event"`
}

// CreateMeet 建一个 5 分钟后开始、时长 30 分钟的带会议日历事件
func (s *MeetService) CreateMeet(ctx context.Context, sessionID, summary, description string) (*MeetResult, error) {
	s.mu.RLock()
	token, ok := s.tokens[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrMeetNotAuthorized
	}

	client := s.oauth.Client(ctx, token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	if summary == "" {
		summary = "SkillXchange learning session"
	}
	start := time.Now().Add(5 * time.Minute)
	end := start.Add(30 * time.Minute)

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: model.GenerateUUID(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := svc.Events.Insert("primary", event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	link := created.HangoutLink
	if link == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				link = ep.Uri
				break
			}
		}
	}
	if link == "" {
		return nil, fmt.Errorf("calendar event created without a meet link")
	}

	return &MeetResult{MeetLink: link, Event: created}, nil
}

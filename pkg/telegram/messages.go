package telegram

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"atg_sender/models"

	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

// LastSavedMessage возвращает самое новое сообщение из "Избранного"
// или nil, если там нет обычных сообщений.
func (s *Session) LastSavedMessage(ctx context.Context) (*models.SourceMessage, error) {
	res, err := s.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  &tg.InputPeerSelf{},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get saved messages: %w", err)
	}

	list, err := historyMessages(res)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		msg, ok := m.(*tg.Message)
		if !ok {
			// Служебные сообщения переслать нельзя
			s.log.Warn("Последнее сообщение в Избранном служебное", zap.String("type", m.TypeName()))
			return nil, nil
		}
		return sourceMessage(msg), nil
	}
	return nil, nil
}

// Forward пересылает сообщение из "Избранного" в чат с маркированным ID chatID.
func (s *Session) Forward(ctx context.Context, chatID int64, msg *models.SourceMessage) error {
	peer, err := s.resolvePeer(ctx, chatID)
	if err != nil {
		return err
	}
	_, err = s.api.MessagesForwardMessages(ctx, &tg.MessagesForwardMessagesRequest{
		FromPeer: &tg.InputPeerSelf{},
		ID:       []int{msg.ID},
		ToPeer:   peer,
		RandomID: []int64{rand.Int63()},
	})
	return err
}

// resolvePeer ищет чат в кэше, а при промахе один раз перечитывает диалоги.
func (s *Session) resolvePeer(ctx context.Context, chatID int64) (tg.InputPeerClass, error) {
	if p, ok := s.peers[chatID]; ok {
		return p, nil
	}
	if _, err := s.ListChats(ctx); err != nil {
		return nil, fmt.Errorf("refresh dialogs: %w", err)
	}
	if p, ok := s.peers[chatID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownChat, chatID)
}

func historyMessages(res tg.MessagesMessagesClass) ([]tg.MessageClass, error) {
	switch m := res.(type) {
	case *tg.MessagesMessages:
		return m.Messages, nil
	case *tg.MessagesMessagesSlice:
		return m.Messages, nil
	case *tg.MessagesChannelMessages:
		return m.Messages, nil
	default:
		return nil, fmt.Errorf("unexpected messages type %T", res)
	}
}

func sourceMessage(msg *tg.Message) *models.SourceMessage {
	_, hasMedia := msg.GetMedia()
	return &models.SourceMessage{
		ID:       msg.ID,
		Text:     msg.Message,
		HasMedia: hasMedia,
		Date:     time.Unix(int64(msg.Date), 0),
	}
}

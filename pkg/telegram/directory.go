package telegram

import (
	"context"

	"atg_sender/models"

	"github.com/gotd/td/telegram/query"
	"github.com/gotd/td/telegram/query/dialogs"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

const dialogsBatchSize = 100

// dialogIterator — итератор диалогов gotd; выделен для подмены в тестах.
type dialogIterator interface {
	Next(ctx context.Context) bool
	Value() dialogs.Elem
	Err() error
}

// ListChats перечисляет группы и каналы аккаунта в порядке, в котором их отдаёт
// Telegram. При ошибке возвращается уже собранная часть списка вместе с ошибкой.
func (s *Session) ListChats(ctx context.Context) ([]models.Chat, error) {
	it := query.GetDialogs(s.api).BatchSize(dialogsBatchSize).Iter()
	chats, peers, err := collectChats(ctx, it)
	// Кэш пополняется и при частичном результате, чтобы пересылать в уже найденные чаты
	for id, p := range peers {
		s.peers[id] = p
	}
	if err != nil {
		s.log.Error("Ошибка получения списка чатов", zap.Int("collected", len(chats)), zap.Error(err))
		return chats, err
	}
	s.log.Info("Список чатов получен", zap.Int("count", len(chats)))
	return chats, nil
}

func collectChats(ctx context.Context, it dialogIterator) ([]models.Chat, map[int64]tg.InputPeerClass, error) {
	var chats []models.Chat
	peers := make(map[int64]tg.InputPeerClass)
	for it.Next(ctx) {
		elem := it.Value()
		chat, ok := classify(elem)
		if !ok {
			continue
		}
		chats = append(chats, chat)
		peers[chat.ID] = elem.Peer
	}
	return chats, peers, it.Err()
}

// classify отбирает группы и каналы. Обычная группа (tg.Chat) — group,
// любой tg.Channel, включая супергруппы, — channel. Личные переписки и боты
// пропускаются.
func classify(elem dialogs.Elem) (models.Chat, bool) {
	if elem.Dialog == nil {
		return models.Chat{}, false
	}
	switch p := elem.Dialog.GetPeer().(type) {
	case *tg.PeerChat:
		// Покинутые и деактивированные группы остаются в списке, как и в клиенте Telegram
		chat, ok := elem.Entities.Chats()[p.ChatID]
		if !ok {
			return models.Chat{}, false
		}
		return models.Chat{ID: MarkedChatID(chat.ID), Name: chat.Title, Kind: models.ChatKindGroup}, true
	case *tg.PeerChannel:
		ch, ok := elem.Entities.Channels()[p.ChannelID]
		if !ok {
			return models.Chat{}, false
		}
		return models.Chat{ID: MarkedChannelID(ch.ID), Name: ch.Title, Kind: models.ChatKindChannel}, true
	default:
		return models.Chat{}, false
	}
}

// Package badmikbot is the Telegram front door: it greets players,
// opens the mini-app and runs the few chat commands the rating system
// has. All state lives in the arena registry.
package badmikbot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/badmik-games/badmik/internal/arena"
	"github.com/badmik-games/badmik/internal/badmikbot/resource"
	"github.com/badmik-games/badmik/internal/badmikbot/util"
	playerModel "github.com/badmik-games/badmik/internal/database/player/model"
	"github.com/badmik-games/badmik/internal/logging"
)

var CommandNotFoundErr = fmt.Errorf("command not found")

func NewManager(tg *tgbotapi.BotAPI, config *Config, registry *arena.Registry) *manager {
	return &manager{
		tg:       tg,
		config:   config,
		registry: registry,
		cmdCb:    map[int64]func(string) error{},
	}
}

type manager struct {
	mtx sync.RWMutex

	tg       *tgbotapi.BotAPI
	config   *Config
	registry *arena.Registry
	// command callbacks, telegram id -> next message handler
	cmdCb  map[int64]func(string) error
	cancel func()
}

func (m *manager) Stop() {
	m.cancel()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = int(m.config.TgBotPollTimeout.Seconds())
	updates, err := m.tg.GetUpdatesChan(upd)
	if err != nil {
		return fmt.Errorf("tg get updates chan: %v", err)
	}

	wg := &sync.WaitGroup{}
	poolWorkerNum := runtime.NumCPU()
	wg.Add(poolWorkerNum)

	for i := 0; i < poolWorkerNum; i++ {
		go m.pool(ctx, wg, updates)
	}

	wg.Wait()

	return nil
}

func (m *manager) pool(ctx context.Context, wg *sync.WaitGroup, updCh tgbotapi.UpdatesChannel) {
	defer wg.Done()
	logger := logging.FromContext(ctx).Named("badmikbot.pool")
	for {
		select {
		case update := <-updCh:
			p, err := m.recvPlayer(update)
			if err != nil {
				if !errors.Is(err, CommandNotFoundErr) {
					logger.Errorf("recv player: %v", err)
				}
				continue
			}

			if update.Message != nil {
				if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
					msg := tgbotapi.NewMessage(update.Message.Chat.ID, resource.TextChatNotAllowedMsg)
					msg.ParseMode = tgbotapi.ModeMarkdown
					if _, err := m.tg.Send(msg); err != nil {
						logger.Errorf("send msg: %v", err)
					}
					continue
				}

				if err := m.handleCommand(p, update); err != nil {
					logger.Errorf("handle command query: %v", err)
				}
			}

			if update.CallbackQuery != nil {
				if err := m.handleCallbackQuery(p, update); err != nil {
					logger.Errorf("handle callback query: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *manager) handleCommand(p playerModel.Player, upd tgbotapi.Update) error {
	chatID := upd.Message.Chat.ID

	switch upd.Message.Text {
	case resource.CmdStart:
		if err := m.handleStartCmd(p, chatID); err != nil {
			return fmt.Errorf("handle start cmd: %v", err)
		}
	case resource.CmdTop:
		if err := m.handleTopCmd(chatID); err != nil {
			return fmt.Errorf("handle top cmd: %v", err)
		}
	case resource.CmdAdminClearRooms:
		if err := m.handleAdminClearRoomsCmd(chatID); err != nil {
			return fmt.Errorf("handle admin clear rooms cmd: %v", err)
		}
	default:
		if cb, ok := m.callback(p.TelegramID); ok {
			if err := cb(upd.Message.Text); err != nil {
				return fmt.Errorf("execute cb: %v", err)
			}

			return nil
		}

		msg := tgbotapi.NewMessage(chatID, resource.TextUnknownCmdMsg)
		if _, err := m.tg.Send(msg); err != nil {
			return fmt.Errorf("send msg: %v", err)
		}
	}

	return nil
}

func (m *manager) handleCallbackQuery(p playerModel.Player, upd tgbotapi.Update) error {
	query := upd.CallbackQuery
	if query.Message == nil {
		return nil
	}

	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("answer callback query: %v", err)
	}

	if query.Data == resource.InitialsButtonData {
		if err := m.handleInitialsCallback(p, query.Message.Chat.ID); err != nil {
			return fmt.Errorf("handle initials callback: %v", err)
		}
	}

	return nil
}

func (m *manager) handleStartCmd(p playerModel.Player, chatID int64) error {
	msgText := fmt.Sprintf(resource.TextGreetingMsg, p.FirstName, greetingEmoji())
	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = resource.StartButtons(m.config.MiniAppURL)
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %v", err)
	}

	return nil
}

func (m *manager) handleTopCmd(chatID int64) error {
	players, err := m.registry.Players()
	if err != nil {
		return fmt.Errorf("registry players: %v", err)
	}

	msg := tgbotapi.NewMessage(chatID, renderLeaderboard(players))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %v", err)
	}

	return nil
}

func (m *manager) handleAdminClearRoomsCmd(chatID int64) error {
	ok, err := m.isAdmin(chatID)
	if err != nil {
		return fmt.Errorf("is admin: %v", err)
	}
	if !ok {
		return nil
	}

	n := m.registry.ClearRooms()
	msgText := fmt.Sprintf(resource.TextRoomsClearedMsg, n, util.Noun(n, "комната", "комнаты", "комнат"))
	msg := tgbotapi.NewMessage(chatID, msgText)
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %v", err)
	}

	return nil
}

// handleInitialsCallback captures the next message from the player as
// the new first and last name. The callback stays registered until a
// valid pair arrives.
func (m *manager) handleInitialsCallback(p playerModel.Player, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, resource.TextSendInitialsMsg)
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %v", err)
	}

	m.registerCallback(p.TelegramID, func(text string) error {
		fields := strings.Fields(text)
		if len(fields) != 2 {
			msg := tgbotapi.NewMessage(chatID, resource.TextInitialsInvalidMsg)
			if _, err := m.tg.Send(msg); err != nil {
				return fmt.Errorf("send msg: %v", err)
			}

			return nil
		}

		updated, err := m.registry.RegisterPlayer(playerModel.Player{
			TelegramID: p.TelegramID,
			FirstName:  fields[0],
			LastName:   fields[1],
			Username:   p.Username,
		})
		if err != nil {
			return fmt.Errorf("register player: %v", err)
		}

		m.deregisterCallback(p.TelegramID)

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(resource.TextInitialsUpdatedMsg, updated.FullName()))
		if _, err := m.tg.Send(msg); err != nil {
			return fmt.Errorf("send msg: %v", err)
		}

		return nil
	})

	return nil
}

func (m *manager) registerCallback(telegramID int64, fn func(string) error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.cmdCb[telegramID] = fn
}

func (m *manager) callback(telegramID int64) (func(msg string) error, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	cb, ok := m.cmdCb[telegramID]
	return cb, ok
}

func (m *manager) deregisterCallback(telegramID int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	delete(m.cmdCb, telegramID)
}

// recvPlayer resolves the telegram user behind an update, registering a
// fresh profile on first contact.
func (m *manager) recvPlayer(upd tgbotapi.Update) (playerModel.Player, error) {
	var tgUser *tgbotapi.User
	var p playerModel.Player
	switch {
	case upd.CallbackQuery != nil:
		tgUser = upd.CallbackQuery.From
	case upd.Message != nil:
		tgUser = upd.Message.From
	default:
		return p, CommandNotFoundErr
	}

	p, err := m.registry.Player(int64(tgUser.ID))
	if err != nil {
		if !errors.Is(err, arena.PlayerNotFoundErr) {
			return p, fmt.Errorf("registry player: %v", err)
		}

		p, err = m.registry.RegisterPlayer(playerModel.Player{
			TelegramID: int64(tgUser.ID),
			FirstName:  tgUser.FirstName,
			LastName:   tgUser.LastName,
			Username:   strings.TrimPrefix(tgUser.UserName, "@"),
		})
		if err != nil {
			return p, fmt.Errorf("register player: %v", err)
		}
	}

	return p, nil
}

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/airylvat/trivia-rounds/trivia"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

type Config struct {
	Token       string
	GameChannel string
	Prefix      string
	Admins      []string
	AdminRoleID string
	LineRate    time.Duration
}

// Bot connects the engine to Discord: it turns channel and direct messages
// into trivia.Message values and implements trivia.Sink.
type Bot struct {
	Session *discordgo.Session

	cfg     Config
	log     *slog.Logger
	handler func(trivia.Message)
	limiter *rate.Limiter
	out     chan outgoing
	post    func(channel, text string) error

	stopSend  context.CancelFunc
	draining  chan struct{}
	drainOnce sync.Once
	sent      chan struct{}

	mu    sync.Mutex
	users map[string]string // username -> user id
}

func NewBot(cfg Config, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	// Handlers run on the gateway goroutine so messages reach the engine in
	// arrival order.
	session.SyncEvents = true

	b := &Bot{
		Session: session,
		cfg:     cfg,
		log:     logger,
		limiter: newLimiter(cfg.LineRate),
		out:     make(chan outgoing, outboxSize),
		users:   make(map[string]string),
	}
	b.post = func(channel, text string) error {
		_, err := session.ChannelMessageSend(channel, text)
		return err
	}
	session.AddHandler(b.handleMessage)
	return b, nil
}

// OnMessage sets the function receiving inbound chat. It must be called
// before Start.
func (b *Bot) OnMessage(fn func(trivia.Message)) {
	b.handler = fn
}

// Start opens the gateway connection and the outbound sender.
func (b *Bot) Start(ctx context.Context) error {
	if b.handler == nil {
		return fmt.Errorf("bot: no message handler")
	}
	if err := b.Session.Open(); err != nil {
		return err
	}
	b.startSender(ctx)

	b.log.Info("bot is running",
		slog.String("user", b.Session.State.User.Username),
		slog.String("game_channel", b.cfg.GameChannel),
		slog.Any("admins", b.cfg.Admins),
		slog.String("admin_role", b.cfg.AdminRoleID),
	)
	return nil
}

func (b *Bot) Close() error {
	return b.Session.Close()
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	private := m.GuildID == ""
	if !private && m.ChannelID != b.cfg.GameChannel {
		return
	}

	b.rememberUser(m.Author.Username, m.Author.ID)
	text := stripMention(m.Content, s.State.User.ID, b.cfg.Prefix)

	msg := trivia.Message{
		User:    m.Author.Username,
		Channel: m.ChannelID,
		Text:    text,
		Private: private,
	}
	if strings.HasPrefix(text, b.cfg.Prefix) {
		msg.Admin = b.isAdmin(s, m)
	}
	b.handler(msg)
}

// isAdmin checks the configured allow-list, then the admin role. The member
// attached to a guild message is used when present.
func (b *Bot) isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if allowListed(b.cfg.Admins, m.Author.ID, m.Author.Username) {
		return true
	}
	if b.cfg.AdminRoleID == "" || m.GuildID == "" {
		return false
	}
	if m.Member != nil {
		return slices.Contains(m.Member.Roles, b.cfg.AdminRoleID)
	}

	member, err := s.GuildMember(m.GuildID, m.Author.ID)
	if err != nil {
		b.log.Warn("error fetching member roles", slog.String("user", m.Author.Username), slog.Any("error", err))
		return false
	}
	return slices.Contains(member.Roles, b.cfg.AdminRoleID)
}

func allowListed(admins []string, ids ...string) bool {
	for _, a := range admins {
		a = strings.TrimSpace(a)
		if a != "" && slices.Contains(ids, a) {
			return true
		}
	}
	return false
}

// stripMention rewrites "<@bot> cmd" into "<prefix>cmd".
func stripMention(content, botID, prefix string) string {
	content = strings.TrimSpace(content)
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if rest, ok := strings.CutPrefix(content, mention); ok {
			return prefix + strings.TrimSpace(rest)
		}
	}
	return content
}

func (b *Bot) rememberUser(name, id string) {
	b.mu.Lock()
	b.users[name] = id
	b.mu.Unlock()
}

func (b *Bot) userID(name string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.users[name]
	return id, ok
}

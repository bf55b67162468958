package runtime

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	whisperUsage    = "Error: Whisper usage: /w <username> <message>"
	usernameUsage   = "Error: Username usage: /username <newname>"
	kickUsage       = "Error: Kick usage: /kick <username> <password>"
	clientListUsage = "Error: Client list usage: /clientlist"
	helpUsage       = "Error: Help usage: /help"
	clearUsage      = "Error: Clear usage: /clear <password>"

	incorrectAdminPassword = "Error: Incorrect admin password."
	incorrectClearPassword = "Error: Incorrect password for clearing chat log."
	cannotKickSelf         = "Error: You cannot kick yourself."
	clearFailed            = "Error: Failed to clear chat log."
	charsetViolation       = "Error: Username can only contain letters, numbers, underscores, and hyphens."
	lengthViolation        = "Error: Username must be between 2 and 20 characters."
)

type commandHandler func(ctx context.Context, sender domain.Session, args []string)

// Interpreter parses slash commands and runs them against the registry and router.
// Every handler validates its own arity and replies with a usage line on mismatch,
// leaving the registry untouched.
type Interpreter struct {
	log        *slog.Logger
	registry   contract.IRegistry
	router     contract.IRouter
	auditor    *Auditor
	authorizer auth.Authorizer
	kickGrace  time.Duration
	handlers   map[string]commandHandler
}

func NewInterpreter(log *slog.Logger, registry contract.IRegistry, router contract.IRouter,
	auditor *Auditor, authorizer auth.Authorizer, kickGrace time.Duration) *Interpreter {
	i := &Interpreter{
		log:        log,
		registry:   registry,
		router:     router,
		auditor:    auditor,
		authorizer: authorizer,
		kickGrace:  kickGrace,
	}
	i.handlers = map[string]commandHandler{
		"/w":          i.whisper,
		"/whisper":    i.whisper,
		"/username":   i.username,
		"/kick":       i.kick,
		"/clientlist": i.clientList,
		"/list":       i.clientList,
		"/users":      i.clientList,
		"/help":       i.help,
		"/commands":   i.help,
		"/clear":      i.clear,
	}
	return i
}

// Execute runs one command line on behalf of sender.
// The line is split on single spaces and the first token selects the handler,
// case-insensitively. A panicking handler degrades to an error reply.
func (i *Interpreter) Execute(ctx context.Context, sender domain.Session, line string) {
	parts := strings.Split(line, " ")
	token := strings.ToLower(parts[0])

	defer func() {
		if r := recover(); r != nil {
			i.log.Error("Command handler panicked", "command", token, "user", sender.DisplayName, "panic", r)
			i.reply(sender, fmt.Sprintf("Error: Internal error while processing '%s'.", token))
		}
	}()

	handler, ok := i.handlers[token]
	if !ok {
		i.reply(sender, fmt.Sprintf("Error: Unknown command '%s'. Type /help to see available commands.", token))
		return
	}
	handler(ctx, sender, parts[1:])
}

func (i *Interpreter) whisper(ctx context.Context, sender domain.Session, args []string) {
	if len(args) < 2 {
		i.reply(sender, whisperUsage)
		return
	}
	target := args[0]
	content := strings.Join(args[1:], " ")

	targetID, ok := i.registry.LookupByName(target)
	if !ok {
		i.reply(sender, notFound(target))
		return
	}
	if err := i.router.Unicast(targetID, domain.WhisperLine(sender.DisplayName, content)); err != nil {
		i.log.Debug("Whisper not delivered", "target", target, "error", err)
		i.reply(sender, notFound(target))
		return
	}
	i.reply(sender, fmt.Sprintf("Whisper sent to %s: %s", target, content))
	i.auditor.Record(ctx, domain.AuditWhisper,
		fmt.Sprintf("%s -> %s: %s", sender.DisplayName, target, content))
}

func (i *Interpreter) username(ctx context.Context, sender domain.Session, args []string) {
	if len(args) != 1 {
		i.reply(sender, usernameUsage)
		return
	}
	newName := args[0]

	if err := domain.ValidateUsername(newName); err != nil {
		switch {
		case stdErrors.Is(err, errors.ErrUsernameCharset):
			i.reply(sender, charsetViolation)
		default:
			i.reply(sender, lengthViolation)
		}
		return
	}

	oldName := sender.DisplayName
	if err := i.registry.Rename(sender.ID, newName); err != nil {
		switch {
		case stdErrors.Is(err, errors.ErrSameName):
			i.reply(sender, fmt.Sprintf("Error: Your username is already '%s'.", newName))
		case stdErrors.Is(err, errors.ErrNameTaken):
			i.reply(sender, fmt.Sprintf("Error: Username '%s' is already taken.", newName))
		default:
			i.log.Warn("Rename failed", "user", oldName, "error", err)
			i.reply(sender, fmt.Sprintf("Error: Could not change username to '%s'.", newName))
		}
		return
	}

	i.reply(sender, fmt.Sprintf("Your username has been changed from '%s' to '%s'.", oldName, newName))
	i.router.Broadcast(domain.RenameNotice(oldName, newName), sender.ID)
	i.auditor.Record(ctx, domain.AuditUsernameChange, fmt.Sprintf("%s -> %s", oldName, newName))
}

// kick checks the secret before anything else, so a wrong secret never reveals
// whether the target exists or is the requester.
func (i *Interpreter) kick(ctx context.Context, sender domain.Session, args []string) {
	if len(args) != 2 {
		i.reply(sender, kickUsage)
		return
	}
	target, secret := args[0], args[1]

	if !i.authorizer.AuthorizeKick(secret) {
		i.reply(sender, incorrectAdminPassword)
		i.auditor.Record(ctx, domain.AuditCommandFailed,
			fmt.Sprintf("%s attempted to kick %s with wrong password", sender.DisplayName, target))
		return
	}
	if target == sender.DisplayName {
		i.reply(sender, cannotKickSelf)
		return
	}

	targetID, ok := i.registry.LookupByName(target)
	if !ok {
		i.reply(sender, notFound(target))
		return
	}
	targetSession, ok := i.registry.LookupByHandle(targetID)
	if !ok || !targetSession.Channel.IsOpen() {
		i.reply(sender, notFound(target))
		return
	}

	if err := i.router.Unicast(targetID, domain.KickedNotice); err != nil {
		i.log.Debug("Kick notice not delivered", "target", target, "error", err)
	}
	i.router.Broadcast(domain.KickNotice(target), targetID)
	i.auditor.Record(ctx, domain.AuditKick, fmt.Sprintf("%s kicked %s", sender.DisplayName, target))

	channel := targetSession.Channel
	time.AfterFunc(i.kickGrace, func() {
		if err := channel.Close(domain.KickCloseReason); err != nil {
			i.log.Debug("Closing kicked connection failed", "target", target, "error", err)
		}
	})
}

func (i *Interpreter) clientList(_ context.Context, sender domain.Session, args []string) {
	if len(args) != 0 {
		i.reply(sender, clientListUsage)
		return
	}
	i.reply(sender, domain.ClientList(i.registry.ListNames()))
}

func (i *Interpreter) help(_ context.Context, sender domain.Session, args []string) {
	if len(args) != 0 {
		i.reply(sender, helpUsage)
		return
	}
	i.reply(sender, domain.HelpText)
}

func (i *Interpreter) clear(ctx context.Context, sender domain.Session, args []string) {
	if len(args) != 1 {
		i.reply(sender, clearUsage)
		return
	}

	if !i.authorizer.AuthorizeClear(args[0]) {
		i.reply(sender, incorrectClearPassword)
		i.auditor.Record(ctx, domain.AuditCommandFailed,
			fmt.Sprintf("%s attempted to clear log with wrong password", sender.DisplayName))
		return
	}

	if err := i.auditor.Clear(ctx); err != nil {
		i.log.Error("Failed to clear audit log", "user", sender.DisplayName, "error", err)
		i.reply(sender, clearFailed)
		return
	}

	i.reply(sender, domain.LogClearedReply)
	i.router.Broadcast(domain.ClearNotice(sender.DisplayName), sender.ID)
	i.auditor.Record(ctx, domain.AuditCommand, fmt.Sprintf("%s cleared chat log", sender.DisplayName))
}

func (i *Interpreter) reply(sender domain.Session, text string) {
	if err := i.router.Unicast(sender.ID, text); err != nil {
		i.log.Debug("Reply not delivered", "user", sender.DisplayName, "error", err)
	}
}

func notFound(name string) string {
	return fmt.Sprintf("Error: User '%s' not found or not connected.", name)
}

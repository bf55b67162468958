// Package domain contains core concepts of the chat relay.
// This file defines the text of every line the relay sends to participants.
package domain

import (
	"fmt"
	"strings"
)

const (
	KickedNotice    = "You have been kicked from the chat by an administrator."
	KickCloseReason = "Kicked by administrator"
	ShutdownNotice  = "Server is shutting down. Goodbye!"
	LogClearedReply = "Chat log cleared successfully!"
	ShutdownReason  = "Server shutting down"
	MalformedReason = "Malformed frame"
)

func ChatLine(author, content string) string {
	return fmt.Sprintf("%s: %s", author, content)
}

func WelcomeNotice(name string) string {
	return fmt.Sprintf("Welcome to the chat, %s! You are now connected.", name)
}

func JoinNotice(name string) string {
	return fmt.Sprintf("%s has joined the chat!", name)
}

func LeaveNotice(name string) string {
	return fmt.Sprintf("%s has left the chat.", name)
}

func RenameNotice(oldName, newName string) string {
	return fmt.Sprintf("%s changed their name to %s.", oldName, newName)
}

func KickNotice(name string) string {
	return fmt.Sprintf("%s has been kicked from the chat.", name)
}

func ClearNotice(name string) string {
	return fmt.Sprintf("%s cleared the chat log.", name)
}

func WhisperLine(sender, content string) string {
	return fmt.Sprintf("[WHISPER from %s]: %s", sender, content)
}

func ClientList(names []string) string {
	return fmt.Sprintf("Connected users (%d): %s", len(names), strings.Join(names, ", "))
}

// HelpText is sent as a single frame with embedded newlines.
var HelpText = strings.Join([]string{
	"=== CHAT COMMANDS HELP ===",
	"",
	"/help or /commands - Show this help message",
	"/w <username> <message> - Send a private whisper to another user",
	"/username <newname> - Change your username",
	"/kick <username> <password> - Kick a user (requires admin password)",
	"/clientlist or /list or /users - Show all connected users",
	"/clear <password> - Clear the chat log (requires admin password)",
	"",
	"Examples:",
	"  /w john Hello there!",
	"  /username MyNewName",
	"  /clientlist",
	"  /clear password",
	"",
	"Note: Commands are case-insensitive",
}, "\n")

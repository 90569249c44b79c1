package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}

// InteractionUser returns the invoking user for guild and DM interactions alike
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the invoking user's ID or "" if unknown
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if u := InteractionUser(i); u != nil {
		return u.ID
	}
	return ""
}

// InteractionName names an interaction for logging
func InteractionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return "/" + i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return i.Type.String()
}

// GuildAndUser extracts the guild and user snowflakes. Commands used outside a guild
// are rejected with a user error.
func GuildAndUser(i *discordgo.InteractionCreate) (guildID, userID int64, err error) {
	if i.GuildID == "" {
		return 0, 0, NewUserError("This command only works inside a server.", "interaction outside guild")
	}
	guildID, err = strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return 0, 0, NewSystemError(err, fmt.Sprintf("failed to parse guild ID %s", i.GuildID))
	}
	user := InteractionUser(i)
	if user == nil {
		return 0, 0, NewSystemError(nil, "interaction without user")
	}
	userID, err = ParseUserID(user.ID)
	if err != nil {
		return 0, 0, NewSystemError(err, fmt.Sprintf("failed to parse user ID %s", user.ID))
	}
	return guildID, userID, nil
}

// DisplayName returns the server nickname, global name or username of the invoker
func DisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	if u := InteractionUser(i); u != nil {
		if u.GlobalName != "" {
			return u.GlobalName
		}
		return u.Username
	}
	return "Unknown"
}

// ComponentID builds a custom ID of the form prefix_action:owner
func ComponentID(prefix, action string, ownerID int64) string {
	return prefix + "_" + action + CustomIDSeparator + FormatUserID(ownerID)
}

// ParseComponentID splits a custom ID built by ComponentID
func ParseComponentID(prefix, customID string) (action string, ownerID int64, err error) {
	rest, ok := strings.CutPrefix(customID, prefix+"_")
	if !ok {
		return "", 0, fmt.Errorf("custom ID %q does not start with %s_", customID, prefix)
	}
	action, owner, ok := strings.Cut(rest, CustomIDSeparator)
	if !ok || action == "" {
		return "", 0, fmt.Errorf("malformed custom ID %q", customID)
	}
	ownerID, err = ParseUserID(owner)
	if err != nil {
		return "", 0, fmt.Errorf("malformed owner in custom ID %q: %w", customID, err)
	}
	return action, ownerID, nil
}

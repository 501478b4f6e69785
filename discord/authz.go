package discord

import (
	"github.com/bwmarrin/discordgo"
)

// adminPermissions are the guild permissions that grant admin command
// access when no admin role is configured.
const adminPermissions = discordgo.PermissionAdministrator | discordgo.PermissionManageServer

// hasAdminRights is the one authorization check every admin-tagged
// operation goes through.
func (c Client) hasAdminRights(permissions int64, roles []string) bool {
	if permissions&adminPermissions != 0 {
		return true
	}
	if c.cfg.AdminRoleID == "" {
		return false
	}
	for _, r := range roles {
		if r == c.cfg.AdminRoleID {
			return true
		}
	}
	return false
}

// authorizeInteraction gates an admin slash command. It also confines admin
// commands to the configured admin channel, when one is set.
func (c Client) authorizeInteraction(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if c.cfg.AdminChannelID != "" && i.ChannelID != c.cfg.AdminChannelID {
		return false
	}
	return c.hasAdminRights(i.Member.Permissions, i.Member.Roles)
}

// authorizeMessage gates an admin prefix command.
func (c Client) authorizeMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Member == nil {
		return false
	}
	if c.cfg.AdminChannelID != "" && m.ChannelID != c.cfg.AdminChannelID {
		return false
	}
	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		c.logger.Error("error resolving member permissions", "error", err.Error(), "user", m.Author.ID)
		return false
	}
	return c.hasAdminRights(perms, m.Member.Roles)
}

package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"guildbot/bot/common"
	"guildbot/domain"
	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/schedule"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves /schedule
type Feature struct {
	scheduler interfaces.SchedulerService
	location  *time.Location
	now       func() time.Time
}

// NewFeature creates the schedule feature. Times users type are read in location.
func NewFeature(scheduler interfaces.SchedulerService, location *time.Location) *Feature {
	return &Feature{
		scheduler: scheduler,
		location:  location,
		now:       time.Now,
	}
}

// HandleCommand routes the /schedule subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	sub, opts := common.Subcommand(i)
	switch sub {
	case "once":
		f.handleOnce(s, i, guildID, userID, opts)
	case "recurring":
		f.handleRecurring(s, i, guildID, userID, opts)
	case "list":
		f.handleList(s, i, guildID)
	case "cancel":
		f.handleCancel(s, i, guildID, userID, opts)
	}
}

type options = map[string]*discordgo.ApplicationCommandInteractionDataOption

func (f *Feature) handleOnce(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID int64, opts options) {
	channelID, err := targetChannel(i, opts)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	when, err := ParseWhen(common.StringOption(opts, "when", ""), f.now().In(f.location))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	job, err := f.scheduler.ScheduleOnce(context.Background(), guildID, channelID, userID, when,
		common.StringOption(opts, "message", ""))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"job_id":   job.ID,
	}).Info("Scheduled one-time message")

	common.RespondWithEmbed(s, i, scheduledEmbed(job, "once"), nil, true)
}

func (f *Feature) handleRecurring(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID int64, opts options) {
	channelID, err := targetChannel(i, opts)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	rule, err := schedule.NewRepeatRule(common.StringOption(opts, "repeat", ""), common.StringOption(opts, "value", ""))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	job, err := f.scheduler.ScheduleRecurring(context.Background(), guildID, channelID, userID, rule,
		common.StringOption(opts, "message", ""))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"job_id":   job.ID,
		"repeat":   rule.Kind,
	}).Info("Scheduled recurring message")

	common.RespondWithEmbed(s, i, scheduledEmbed(job, schedule.Describe(rule)), nil, true)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	jobs, err := f.scheduler.ListJobs(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, listEmbed(jobs), nil, true)
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID int64, opts options) {
	id := common.StringOption(opts, "id", "")
	if err := f.scheduler.CancelJob(context.Background(), guildID, userID, id); err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithContent(s, i, fmt.Sprintf("🗑️ Cancelled scheduled message `%s`.", id), true)
}

// targetChannel is the channel option when given, otherwise the channel the command ran in
func targetChannel(i *discordgo.InteractionCreate, opts options) (int64, error) {
	channelID := i.ChannelID
	if opt, ok := opts["channel"]; ok {
		channelID = opt.ChannelValue(nil).ID
	}
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("channel", "unknown channel")
	}
	return id, nil
}

func scheduledEmbed(job entities.ScheduledJob, repeat string) *discordgo.MessageEmbed {
	h := job.Header()
	return &discordgo.MessageEmbed{
		Title: "⏰ Message scheduled",
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%d>", h.ChannelID), Inline: true},
			{Name: "Next", Value: common.FormatDiscordTimestamp(h.TriggerTime, "F"), Inline: true},
			{Name: "Repeat", Value: repeat, Inline: true},
			{Name: "Message", Value: common.Truncate(h.Message, 1024)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "ID: " + h.ID},
	}
}

func listEmbed(jobs []entities.ScheduledJob) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📅 Scheduled messages",
		Color: common.ColorInfo,
	}
	if len(jobs) == 0 {
		embed.Description = "Nothing is scheduled in this server."
		return embed
	}

	sort.Slice(jobs, func(a, b int) bool {
		return jobs[a].Header().TriggerTime.Before(jobs[b].Header().TriggerTime)
	})

	for idx, job := range jobs {
		if idx == common.MaxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("and %d more", len(jobs)-common.MaxEmbedFields),
			}
			break
		}
		h := job.Header()
		repeat := "once"
		if recurring, ok := job.(*entities.RecurringJob); ok {
			repeat = schedule.Describe(recurring.Rule)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s · %s", common.FormatDiscordTimestamp(h.TriggerTime, "f"), repeat),
			Value: fmt.Sprintf("`%s` in <#%d> by %s\n%s",
				h.ID, h.ChannelID, common.GetUserMention(h.UserID), common.Truncate(h.Message, 200)),
		})
	}
	return embed
}

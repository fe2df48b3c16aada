package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/api"
)

const (
	ConfigKeyAgentName  = "agentName"
	ConfigKeyServerName = "serverName"
	ConfigKeyRoomName   = "roomName"
)

const captionCommand = "caption"

func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	_ = godotenv.Load()
	config, err := common.LoadConfigOrDefault("config.yaml")
	if err != nil {
		return err
	}
	agentName := config.GetStringOrDefault(ConfigKeyAgentName, "Tagger")
	roomName := config.GetStringOrDefault(ConfigKeyRoomName, "TaggerRoom")
	serverName := config.GetStringOrDefault(ConfigKeyServerName, "irc.euirc.net:6667")
	logger := common.NewFileLogger(config.GetStringOrDefault(api.ConfigKeyLogPath, "log.txt"))
	tagger, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	// Runs take minutes, so they're executed off the bot's read loop, one at a time.
	jobQueue := common.NewJobQueue(4, logger)
	defer jobQueue.Stop()
	ircBot, err := hbot.NewBot(serverName, agentName)
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return m.Command == "PRIVMSG" && len(m.To) != 0 && m.To[0] == '#'
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			what, ok := addressedTo(agentName, m.Content)
			if !ok {
				return false
			}
			directory, temperature, err := parseCaptionCommand(what)
			if err != nil {
				b.Reply(m, m.From+" "+err.Error())
				return true
			}
			enqueued := jobQueue.TryEnqueue("caption "+directory, func() error {
				replyProgress(m.From, tagger.DescribeImages(context.Background(), directory, temperature), func(text string) {
					b.Reply(m, text)
				})
				return nil
			})
			if !enqueued {
				b.Reply(m, m.From+" too many runs queued, try again later")
				return true
			}
			b.Reply(m, fmt.Sprintf("%s queued captioning of %s", m.From, directory))
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

// addressedTo strips "<agentName>," or "<agentName>:" from the start of a message.
func addressedTo(agentName, content string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(content), strings.ToLower(agentName)) {
		return "", false
	}
	what := strings.TrimSpace(content[len(agentName):])
	what = strings.TrimLeft(what, ",:")
	return strings.TrimSpace(what), true
}

// parseCaptionCommand parses "caption <directory> [temperature]". The directory may contain spaces.
func parseCaptionCommand(what string) (string, float64, error) {
	usage := fmt.Errorf("usage: %s <directory> [temperature %.1f-%.1f]", captionCommand, api.MinTemperature, api.MaxTemperature)
	fields := strings.Fields(what)
	if len(fields) < 2 || !strings.EqualFold(fields[0], captionCommand) {
		return "", 0, usage
	}
	args := fields[1:]
	temperature := api.DefaultTemperature
	if len(args) > 1 {
		value, err := strconv.ParseFloat(args[len(args)-1], 64)
		if err == nil {
			if value < api.MinTemperature || value > api.MaxTemperature {
				return "", 0, usage
			}
			temperature = value
			args = args[:len(args)-1]
		}
	}
	directory := common.CleanUserPath(strings.Join(args, " "))
	if directory == "" {
		return "", 0, usage
	}
	return directory, temperature, nil
}

func replyProgress(who string, snapshots func(func(api.Snapshot) bool), reply func(text string)) {
	printed := ""
	for snapshot := range snapshots {
		for _, line := range common.NonEmptyLines(common.AppendedText(printed, snapshot.Text)) {
			reply(who + " " + line)
		}
		printed = snapshot.Text
	}
}

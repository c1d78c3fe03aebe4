package cmd

import (
	"context"
	"errors"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/auth"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/channel"
	"github.com/syncwatch-cli/syncwatch/config"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/player"
	"github.com/syncwatch-cli/syncwatch/tui"
)

const loopBuffer = 256

// promptNickname returns nickname when it is valid, otherwise asks for one.
func promptNickname(nickname string) (string, error) {
	if valid, err := engine.ValidateNickname(nickname); err == nil {
		return valid, nil
	}

	input := survey.Input{
		Message: "Nickname:",
		Help:    "Shown to other members of the rooms you join. 2 to 20 characters.",
	}

	var response string
	err := survey.AskOne(&input, &response, survey.WithValidator(func(ans interface{}) error {
		_, err := engine.ValidateNickname(ans.(string))
		return err
	}))
	if err != nil {
		return "", err
	}

	nickname, _ = engine.ValidateNickname(response)

	remember := survey.Confirm{
		Message: "Remember this nickname?",
		Default: true,
	}
	var save bool
	if survey.AskOne(&remember, &save) == nil && save {
		viper.Set(key.UserNickname, nickname)
		writeConfig()
	}

	return nickname, nil
}

func promptRoomName() (string, error) {
	input := survey.Input{Message: "Room name:"}

	var response string
	err := survey.AskOne(&input, &response, survey.WithValidator(func(ans interface{}) error {
		_, err := engine.ValidateRoomName(ans.(string))
		return err
	}))
	if err != nil {
		return "", err
	}

	return engine.ValidateRoomName(response)
}

// dialOptions builds the channel options from the configuration and the stored token.
func dialOptions() channel.Options {
	token, err := auth.Token()
	if err != nil {
		log.Warnf("keyring unavailable, connecting without a token: %v", err)
	}

	return channel.Options{
		URL:            viper.GetString(key.ServerURL),
		Token:          token,
		ReconnectDelay: config.Millis(key.ConnectionReconnectDelayMs),
		Timeout:        config.Millis(key.ConnectionTimeoutMs),
	}
}

type watchOptions struct {
	nickname string
	// join and create are applied once, after the first successful connection.
	join   string
	create string
}

// enter returns a lifecycle handler that joins or creates the requested room on the first connection.
func (o watchOptions) enter(eng *engine.Engine) channel.LifecycleHandler {
	var once sync.Once

	return func(state channel.Lifecycle, _ error) {
		if state != channel.Connected && state != channel.Reconnected {
			return
		}

		once.Do(func() {
			go func() {
				var err error
				switch {
				case o.join != "":
					err = eng.JoinRoom(o.join)
				case o.create != "":
					err = eng.CreateRoom(o.create)
				}
				if err != nil {
					log.Warnf("enter room: %v", err)
				}
			}()
		})
	}
}

// watch runs an interactive session until the interface is closed.
func watch(ctx context.Context, opts watchOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := player.New(viper.GetString(key.Player), config.Millis(key.SyncProgressIntervalMs))
	if err != nil {
		return err
	}
	if err := p.Start(); err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn(err)
		}
	}()

	client := channel.New(dialOptions())

	loop := engine.NewLoop(loopBuffer)
	go loop.Run()
	defer loop.Close()

	var (
		observer = tui.NewObserver()
		deps     = engine.Deps{
			Scheduler: loop,
			Transport: client,
			Element:   p,
			Observer:  observer,
		}
		options = tui.Options{
			Observer:     observer,
			Refresh:      config.Millis(key.SyncProgressIntervalMs),
			PlayerExited: p.Wait(),
		}
	)

	if cat, err := catalog.Configured(); err != nil {
		log.Warnf("catalog disabled: %v", err)
	} else {
		deps.Resolve = cat.Resolve
		options.Catalog = cat
	}

	eng := engine.New(deps, engine.Configured())
	defer eng.Close()
	eng.Watch(p)
	options.Engine = eng
	client.OnLifecycle(opts.enter(eng))

	// identified before the first handshake, so the connect resync lists the rooms
	if err := eng.Identify(opts.nickname); err != nil {
		return err
	}

	go func() {
		if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(err)
		}
	}()

	return tui.Run(&options)
}

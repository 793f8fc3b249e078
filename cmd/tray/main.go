// Package main is the entry point for the dice tray. It simulates a
// throw for the requested notation and prints the settled values, or,
// when a room is configured, asks the room server to resolve the roll.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/dice-arena/internal/config"
	"github.com/Faultbox/dice-arena/internal/game"
	"github.com/Faultbox/dice-arena/internal/logger"
	"github.com/Faultbox/dice-arena/internal/random"
	"github.com/Faultbox/dice-arena/internal/room"
)

var (
	flagRoll = flag.String("roll", "2d6", "Dice notation to roll (e.g. 2d6+d20+4)")
	flagSeed = flag.Int64("seed", 0, "Throw seed; 0 picks a random one")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	notation, err := room.ParseNotation(*flagRoll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Roll error: %v\n", err)
		os.Exit(1)
	}

	if cfg.User.RoomCode != "" {
		if err := rollInRoom(cfg, notation); err != nil {
			logger.Error("room roll failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := rollLocal(cfg, notation); err != nil {
		logger.Error("roll failed", zap.Error(err))
		os.Exit(1)
	}
}

// rollLocal runs the full simulation in-process: place the notation's
// dice, throw them, and read the settled faces.
func rollLocal(cfg *config.Config, notation room.Notation) error {
	seed := *flagSeed
	if seed == 0 {
		var err error
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	logger.Info("local roll",
		zap.String("notation", notation.String()),
		zap.Int64("seed", seed),
	)

	s := game.New(cfg, seed)
	for _, kind := range notation.Kinds {
		if err := s.AddDie(kind); err != nil {
			return err
		}
	}
	if !s.Roll() {
		return fmt.Errorf("nothing to roll")
	}
	if err := s.RunUntilResults(2 * time.Minute); err != nil {
		return err
	}

	results := s.Tray().Results()
	for i, sel := range s.Tray().Selections() {
		fmt.Printf("%s: %d\n", sel.Kind.Tag(), results[i])
	}
	total := s.Tray().Total() + notation.Constant
	if notation.Constant != 0 {
		fmt.Printf("modifier: %+d\n", notation.Constant)
	}
	fmt.Printf("total: %d\n", total)
	return nil
}

// rollInRoom hands the notation to the room server so every member sees
// the same result.
func rollInRoom(cfg *config.Config, notation room.Notation) error {
	c := room.NewClient()
	done := make(chan room.RollResult, 1)
	c.RegisterHandler(room.MsgRollResult, func(env room.Envelope) error {
		var res room.RollResult
		if err := env.Unmarshal(&res); err != nil {
			return err
		}
		select {
		case done <- res:
		default:
		}
		return nil
	})

	if err := c.Connect(cfg.Network.Server, cfg.Network.ConnectTimeout); err != nil {
		return err
	}
	defer c.Disconnect()

	if err := c.Send(room.MsgHello, room.Hello{Name: cfg.User.Name, Color: cfg.User.Color}); err != nil {
		return err
	}
	if err := c.Send(room.MsgJoin, room.Join{Room: cfg.User.RoomCode}); err != nil {
		return err
	}
	if err := c.Send(room.MsgRollRequest, room.RollRequest{
		From:     cfg.User.Name,
		Notation: notation.String(),
	}); err != nil {
		return err
	}

	deadline := time.After(cfg.Network.ConnectTimeout)
	for {
		select {
		case res := <-done:
			for i, v := range res.Values {
				fmt.Printf("die %d: %d\n", i+1, v)
			}
			fmt.Printf("total: %d\n", res.Total)
			return nil
		case <-deadline:
			return fmt.Errorf("no roll result from %s", cfg.Network.Server)
		default:
			if err := c.Process(); err != nil {
				return err
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"blobslide/internal/log"
	"blobslide/lib"
	"github.com/google/uuid"
	"go.bug.st/serial"
)

func main() {
	config := lib.DefaultConfig()
	if err := config.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	flag.IntVar(&config.CameraID, "camera", config.CameraID, "Camera device index")
	flag.StringVar(&config.SpritePath, "sprite", config.SpritePath, "Sprite image (BMP)")
	flag.StringVar(&config.SerialPort, "serial", config.SerialPort, "Serial port to mirror moves to an Open Interface robot (empty = off)")
	flag.IntVar(&config.BaudRate, "baud", config.BaudRate, "Serial baud rate")
	flag.IntVar(&config.MirrorSpeed, "speed", config.MirrorSpeed, "Mirror spin speed in mm/s")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")
	flag.Parse()

	if *listPorts {
		printPorts()
		return
	}

	if problems := config.Validate(); problems != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration: "+strings.Join(problems, "; "))
		os.Exit(2)
	}

	log.Init(config.LogLevel)
	logger := log.With("session", uuid.NewString())

	if err := run(config); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
	logger.Info("application quit successfully")
}

func run(config lib.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	detector, err := lib.NewColorDetector(config)
	if err != nil {
		return fmt.Errorf("unable to open camera: %w", err)
	}
	defer detector.Close()

	scene := lib.NewScene(config)
	defer scene.Close()

	var mirror *lib.Mirror
	if config.SerialPort != "" {
		roomba, err := connectRoomba(config)
		if err != nil {
			return err
		}
		defer roomba.Close()

		mirror = lib.NewMirror(roomba, int16(config.MirrorSpeed))
		defer mirror.Halt()
	}

	log.Info("application started successfully", "camera", config.CameraID)

	sprite := lib.NewSprite()
	var drops lib.FrameDrops
	for ctx.Err() == nil {
		det, err := detector.Step()
		switch {
		case errors.Is(err, lib.ErrNoFrame):
			if drops.Miss() {
				log.Warn("cannot read from camera")
			}
		case err != nil:
			log.Warn("skipping frame", "error", err)
		default:
			if n := drops.Recover(); n > 0 {
				log.Info("camera recovered", "skipped_frames", n)
			}
			sprite.Apply(det.Action)
			if mirror != nil {
				mirror.Follow(det.Action)
			}
		}

		scene.Render(sprite, detector.Overlay())
		if scene.Poll() {
			break
		}
	}

	return nil
}

func connectRoomba(config lib.Config) (*lib.Roomba, error) {
	roomba := lib.NewRoomba(config.SerialPort, config.BaudRate)
	if err := roomba.Connect(); err != nil {
		return nil, err
	}
	if err := roomba.Start(); err != nil {
		roomba.Close()
		return nil, fmt.Errorf("start roomba: %w", err)
	}
	if err := roomba.SafeMode(); err != nil {
		roomba.Close()
		return nil, fmt.Errorf("roomba safe mode: %w", err)
	}
	log.Info("mirror connected", "port", config.SerialPort, "baud", config.BaudRate)
	return roomba, nil
}

func printPorts() {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting serial ports: %v\n", err)
		os.Exit(1)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found!")
		return
	}
	fmt.Println("Available serial ports:")
	for _, port := range ports {
		fmt.Println("  " + port)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"kgeyst.com/nltagger/pkg/common"
	"kgeyst.com/nltagger/pkg/nltagger/api"
)

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
	tagger, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	rl, err := readline.New("directory> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Fprintln(rl.Stdout(), "Enter the folder with the pictures to caption (Ctrl+D to quit).")
	for {
		rl.SetPrompt("directory> ")
		line, err := rl.Readline()
		if err != nil { // io.EOF or Ctrl+C
			break
		}
		directory := common.CleanUserPath(line)
		if directory == "" {
			continue
		}
		temperature, ok := readTemperature(rl)
		if !ok {
			break
		}
		runAndPrint(context.Background(), rl.Stdout(), tagger, directory, temperature)
	}
	return nil
}

func readTemperature(rl *readline.Instance) (float64, bool) {
	rl.SetPrompt(fmt.Sprintf("temperature [%.1f]> ", api.DefaultTemperature))
	for {
		line, err := rl.Readline()
		if err != nil {
			return 0, false
		}
		temperature, err := parseTemperature(line)
		if err != nil {
			fmt.Fprintln(rl.Stdout(), err)
			continue
		}
		return temperature, true
	}
}

func parseTemperature(line string) (float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return api.DefaultTemperature, nil
	}
	temperature, err := strconv.ParseFloat(line, 64)
	if err != nil || temperature < api.MinTemperature || temperature > api.MaxTemperature {
		return 0, fmt.Errorf("temperature must be a number between %.1f and %.1f", api.MinTemperature, api.MaxTemperature)
	}
	return temperature, nil
}

// Ctrl+C during a run cancels it instead of killing the program: the picture being captioned is aborted
// (and reported as failed) and the remaining ones are skipped.
func runAndPrint(ctx context.Context, out io.Writer, tagger api.API, directory string, temperature float64) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	printed := ""
	for snapshot := range tagger.DescribeImages(ctx, directory, temperature) {
		fmt.Fprint(out, common.AppendedText(printed, snapshot.Text))
		printed = snapshot.Text
	}
	fmt.Fprintln(out)
}

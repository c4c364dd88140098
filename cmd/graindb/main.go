package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"github.com/graindb/graindb"
	engine "github.com/graindb/graindb/internal/graindb"
	"github.com/graindb/graindb/internal/pkg/logging"
)

const (
	cliName string = "graindb"
)

func printPrompt() {
	fmt.Print(cliName, "> ")
}

func printHelp() {
	fmt.Println("Statements end with ';'. Supported SQL:")
	fmt.Println("  CREATE TABLE table_name (column_name type [, ...])   type: INT | FLOAT | CHAR(n)")
	fmt.Println("  DROP TABLE table_name")
	fmt.Println("  CREATE INDEX table_name (column_name [, ...])")
	fmt.Println("  DROP INDEX table_name (column_name [, ...])")
	fmt.Println("  INSERT INTO table_name VALUES (value [, ...])")
	fmt.Println("  DELETE FROM table_name [WHERE ...]")
	fmt.Println("  UPDATE table_name SET column = value [, ...] [WHERE ...]")
	fmt.Println("  SELECT ... FROM ... [WHERE ...] [GROUP BY ... [HAVING ...]] [ORDER BY ...]")
	fmt.Println("  SET enable_nestloop|enable_sortmerge = true|false")
	fmt.Println("Meta commands: .help .tables .exit")
}

type metaCommand int

const (
	Unknown metaCommand = iota + 1
	Help
	Exit
	ListTables
)

func isMetaCommand(inputBuffer string) bool {
	return len(inputBuffer) > 0 && inputBuffer[:1] == "."
}

func doMetaCommand(inputBuffer string) metaCommand {
	switch strings.TrimPrefix(inputBuffer, ".") {
	case "help":
		return Help
	case "exit":
		return Exit
	case "tables":
		return ListTables
	default:
		return Unknown
	}
}

func sanitizeReplInput(input string) string {
	return strings.TrimSpace(input)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := viper.New()
	v.SetConfigName("graindb")
	v.AddConfigPath(".")
	v.SetEnvPrefix("graindb")
	v.AutomaticEnv()
	_ = v.ReadInConfig() // missing config file is fine, defaults apply

	v.SetDefault("log_level", "info")
	logger, err := logging.NewLogger(v.GetString("log_level"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := engine.NewPlanConfigFromViper(v)
	anEngine := graindb.NewEngine(logger, graindb.WithPlanConfig(cfg))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
		fmt.Println("")
		os.Exit(0)
	}()

	logger.Info("starting graindb planner repl")
	printHelp()

	reader := bufio.NewScanner(os.Stdin)
	printPrompt()
	for reader.Scan() {
		input := sanitizeReplInput(reader.Text())

		if isMetaCommand(input) {
			switch doMetaCommand(input) {
			case Help:
				printHelp()
			case Exit:
				return
			case ListTables:
				for _, tableName := range anEngine.Catalog().Tables() {
					fmt.Println(tableName)
				}
			default:
				fmt.Printf("Unrecognized meta command: %s\n", input)
			}
			printPrompt()
			continue
		}

		if input != "" {
			plans, err := anEngine.Exec(ctx, input)
			if err != nil {
				fmt.Printf("Error: %s\n", err)
			}
			for _, aPlan := range plans {
				fmt.Print(graindb.Explain(aPlan))
			}
		}

		printPrompt()
	}
}

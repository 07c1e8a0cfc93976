// Plenty-cli - CLI утилита для выборок из REST API Plentymarkets.
//
// Использование:
//
//	./plenty-cli vat
//	./plenty-cli -start 2020-09-14 -end 2020-09-15 -date-type Payment orders
//	./plenty-cli -refine orderType=1 -with addresses,documents -json orders
//	./plenty-cli -lang de -with variations items
//	./plenty-cli -link-variations -export attributes
//
// config.yaml ищется: флаг -config → $PLENTY_CONFIG → ./config.yaml →
// директория бинарника → <UserConfigDir>/plenty-api/config.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ilkoid/plenty-api/pkg/cache"
	"github.com/ilkoid/plenty-api/pkg/config"
	"github.com/ilkoid/plenty-api/pkg/plenty"
	"github.com/ilkoid/plenty-api/pkg/s3storage"
	"github.com/ilkoid/plenty-api/pkg/utils"
)

// Version - версия утилиты (заполняется при сборке)
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Парсим флаги
	refine := refineFlag{}
	var (
		configPath  = flag.String("config", "", "Path to config.yaml (default: $PLENTY_CONFIG or ./config.yaml)")
		start       = flag.String("start", "", "Start of date range (orders)")
		end         = flag.String("end", "", "End of date range (orders)")
		dateType    = flag.String("date-type", plenty.DateTypeCreation, "Creation, Payment, Change or Delivery (orders)")
		with        = flag.String("with", "", "Comma separated list of relations to include")
		lang        = flag.String("lang", "", "Language code for localized domains")
		subset      = flag.String("subset", "", "Comma separated country ids (vat)")
		linkVars    = flag.Bool("link-variations", false, "Link attribute values with variations (attributes)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
		export      = flag.Bool("export", false, "Upload result to S3 bucket from config")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
		noColor     = flag.Bool("no-color", false, "Disable colors in output")
		showHelp    = flag.Bool("help", false, "Show help")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Var(refine, "refine", "Filter key=value (repeatable)")
	flag.Parse()

	// 2. Обработка специальных флагов
	if *showVersion {
		fmt.Printf("plenty-cli version %s\n", Version)
		return 0
	}

	if *showHelp {
		printHelp()
		return 0
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: command argument is required")
		fmt.Fprintln(os.Stderr, "Usage: plenty-cli [flags] <command>")
		fmt.Fprintln(os.Stderr, "Run 'plenty-cli -help' for more information")
		return 1
	}
	command := flag.Arg(0)

	subsetIDs, err := parseSubset(*subset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	req := request{
		Start:          *start,
		End:            *end,
		DateType:       *dateType,
		Refine:         refine,
		With:           parseList(*with),
		Lang:           *lang,
		Subset:         subsetIDs,
		LinkVariations: *linkVars,
	}

	// 3. Загружаем конфигурацию
	cfg, cfgPath, err := config.Discover(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// 4. Логгер и graceful shutdown
	runID := uuid.NewString()
	logPath, err := utils.InitLogger(cfg.App.LogDir, *debugFlag || cfg.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}

	ctx, shutdown := utils.SetupGracefulShutdown(context.Background())
	defer shutdown.Run()

	utils.Info("plenty-cli started", "run_id", runID, "command", command, "config", cfgPath)

	// 5. Клиент (+ кэш)
	opts := []plenty.Option{plenty.WithRunID(runID)}
	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache disabled: %v\n", err)
		} else {
			shutdown.OnShutdown(func() {
				if n, err := store.Purge(context.Background()); err == nil && n > 0 {
					utils.Debug("cache purged", "run_id", runID, "entries", n)
				}
				_ = store.Close()
			})
			opts = append(opts, plenty.WithCache(store, cfg.Cache.TTL))
		}
	}

	client, err := plenty.NewFromConfig(cfg.Plenty, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating client: %v\n", err)
		return 1
	}

	// 6. Выполняем команду
	started := time.Now()
	result, err := execute(ctx, client, command, req)
	if err != nil {
		utils.Error("command failed", "run_id", runID, "command", command, "error", err)
		printError(os.Stderr, err, *noColor)
		return 1
	}
	utils.Info("command done", "run_id", runID, "command", command, "duration_ms", time.Since(started).Milliseconds())

	// 7. Экспорт
	var exportKey string
	if *export {
		exporter, err := s3storage.New(cfg.S3, runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		exportKey, err = exporter.Upload(ctx, command, result)
		if err != nil {
			utils.Error("export failed", "run_id", runID, "error", err)
			fmt.Fprintf(os.Stderr, "Error exporting result: %v\n", err)
			return 1
		}
		utils.Info("exported", "run_id", runID, "key", exportKey)
	}

	// 8. Выводим результат
	summary := runSummary{
		Command:   command,
		RunID:     runID,
		Duration:  time.Since(started),
		ExportKey: exportKey,
	}
	if *jsonOutput {
		if err := printJSON(os.Stdout, summary, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return 1
		}
	} else {
		printHuman(os.Stdout, summary, result, *noColor)
	}

	if logPath != "" {
		fmt.Fprintf(os.Stderr, "\nLog: %s\n", logPath)
	}
	return 0
}

// printHelp выводит справку
func printHelp() {
	fmt.Println("Plenty CLI - выборки из REST API Plentymarkets")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plenty-cli [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  orders          Orders filtered by date range and refine")
	fmt.Println("  items           Items")
	fmt.Println("  variations      Variations")
	fmt.Println("  manufacturers   Manufacturers")
	fmt.Println("  vat             VAT configurations grouped by country")
	fmt.Println("  prices          Shrunk sales price configurations")
	fmt.Println("  attributes      Attributes with values")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config string     Path to config.yaml (default $PLENTY_CONFIG or \"./config.yaml\")")
	fmt.Println("  -start string      Start of date range, e.g. 2020-09-14")
	fmt.Println("  -end string        End of date range")
	fmt.Println("  -date-type string  Creation, Payment, Change or Delivery (default \"Creation\")")
	fmt.Println("  -refine key=value  Filter, may be repeated")
	fmt.Println("  -with a,b          Relations to include (all commands except vat)")
	fmt.Println("  -lang string       Language for items, variations and attributes")
	fmt.Println("  -subset 1,2        Country ids for vat")
	fmt.Println("  -link-variations   Link attribute values with variations")
	fmt.Println("  -json              Output in JSON format")
	fmt.Println("  -export            Upload result to S3")
	fmt.Println("  -debug             Enable debug logging")
	fmt.Println("  -no-color          Disable colors in output")
	fmt.Println("  -version           Show version")
	fmt.Println("  -help              Show this help")
	fmt.Println()
	fmt.Println("A flag the command does not use is an error.")
}

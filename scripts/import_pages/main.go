package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/database"
	"github.com/mrouhi13/laum/internal/repositories"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var rootCmd = &cobra.Command{
	Use:   "import_pages",
	Short: "Import pages from an .xlsx workbook, one sheet per language",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "pages.xlsx", "Workbook with one sheet per language")
	rootCmd.Flags().Bool("dry-run", false, "Print parsed rows without writing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var pageService *services.PageService
	if !dryRun {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		pageService = services.NewPageService(
			repositories.NewPageRepository(db, cfg.PIDPrefix, cfg.GIDPrefix),
			repositories.NewTagRepository(db),
			services.NewContentEditor(),
			services.LogNotifier{},
			cfg,
		)
	}

	ctx := cmd.Context()
	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, errs := readSheet(f, sheetName)
		for _, err := range errs {
			fmt.Println(err)
		}

		for _, r := range rows {
			if dryRun {
				fmt.Printf("Row %d: %s (%d tags)\n", r.Row, r.Input.Title, len(r.Input.Tags))
				continue
			}
			page, err := pageService.Save(ctx, "", r.Input)
			if err != nil {
				fmt.Printf("Error creating page in row %d: %v\n", r.Row, err)
				continue
			}
			fmt.Printf("Row %d -> %s\n", r.Row, page.PID)
			totalImported++
		}
	}

	fmt.Printf("Successfully imported %d pages.\n", totalImported)
	return nil
}

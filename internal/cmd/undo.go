package cmd

import (
	"fmt"

	"github.com/Digital-Shane/media-mover/internal/log"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse the most recent run",
	Long: `Move the files relocated by the most recent session back to where they
came from, and remove any directories that session created (when empty).
Operations are reversed newest-first.`,
	RunE: runUndoCommand,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndoCommand(cmd *cobra.Command, args []string) error {
	session, logPath, err := log.FindLatestSession()
	if err != nil {
		return err
	}

	fmt.Printf("undoing session %s (%d operations)\n",
		session.Metadata.SessionID, session.Metadata.TotalOps)

	successful, failed, errs := log.UndoSession(session)
	for _, err := range errs {
		fmt.Printf("  %v\n", err)
	}
	fmt.Printf("%d operations reversed, %d failed (journal: %s)\n", successful, failed, logPath)

	if failed > 0 {
		return fmt.Errorf("%d operations could not be reversed", failed)
	}
	return nil
}

package events

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/ticketflow/internal/infrastructure/pubsub"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
)

var (
	flags     bootstrap.Flags
	ticketSID string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Ticket event stream tools",
	}

	flags.Register(cmd)

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print committed ticket events as they are published",
		Long:  `Subscribe to the redis ticket event channel and print one JSON line per event. Requires events.enabled.`,
		RunE:  runTail,
	}
	tail.Flags().StringVarP(&ticketSID, "ticket", "t", "", "Only print events of this ticket")

	cmd.AddCommand(tail)

	return cmd
}

func runTail(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Open(&flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	bus := rt.Container.EventBus()
	if bus == nil {
		return fmt.Errorf("event fan-out is disabled; set events.enabled to true")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	rt.Log.Infow("tailing ticket events", "ticket_sid", ticketSID)

	err = bus.SubscribeTicketEvents(ctx, func(msg pubsub.TicketEventMessage) {
		if !matches(msg, ticketSID) {
			return
		}
		if err := bootstrap.PrintJSON(out, msg); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func matches(msg pubsub.TicketEventMessage, ticket string) bool {
	return ticket == "" || msg.TicketSID == ticket
}

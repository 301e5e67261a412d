package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatrum/internal/model"
	"chatrum/internal/notification"
	"chatrum/internal/syncer"
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Message commands",
	Long:  `Read and write messages in a room: list, send, update, delete and forward`,
}

// openRoom resolves the --room flag into a message synchronizer for that room.
func openRoom(rt *runtime, p *terminalPrompter, cmd *cobra.Command) (*syncer.Messages, error) {
	key, _ := cmd.Flags().GetString("room")

	rooms := rt.newRooms(p)
	room, err := findRoom(rooms, cmd, key)
	if err != nil {
		return nil, err
	}

	notifier := notification.NewService(rt.gw, rt.logger)
	return syncer.NewMessages(room, rt.gw, notifier, rt.sessions, p, syncer.InlineDispatcher{}, rt.logger), nil
}

// findMessage resolves a message id inside an already loaded room.
func findMessage(messages *syncer.Messages, id string) (model.Message, error) {
	i := messages.Cache.IndexFunc(func(m model.Message) bool { return m.ID == id })
	if i < 0 {
		return model.Message{}, fmt.Errorf("message '%s' not found in room '%s'", id, messages.Room().Name)
	}
	return messages.Cache.At(i), nil
}

var listMessagesCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages in a room",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		messages, err := openRoom(rt, newTerminalPrompter(), cmd)
		if err != nil {
			return err
		}

		// Entering a room also resolves any pending notification flag.
		messages.RoomOpened(cmd.Context())

		items := messages.Cache.Items()
		if len(items) == 0 {
			fmt.Println("No messages yet.")
			return nil
		}

		fmt.Printf("%d messages in %s:\n\n", len(items), messages.Room().Name)
		for _, m := range items {
			fmt.Printf("[%s] %s: %s\n", m.Timestamp, m.SenderName, m.Text)
			if m.FromRoomName != "" {
				fmt.Printf("  (forwarded from %s)\n", m.FromRoomName)
			}
			fmt.Printf("  id: %s\n", m.ID)
		}
		return nil
	},
}

var sendMessageCmd = &cobra.Command{
	Use:   "send [text...]",
	Short: "Send a message to a room",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		messages, err := openRoom(rt, newTerminalPrompter(), cmd)
		if err != nil {
			return err
		}

		messages.LoadMessages(cmd.Context())
		messages.CreateMessage(cmd.Context(), strings.Join(args, " "))
		return nil
	},
}

var updateMessageCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update one of your messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		messages, err := openRoom(rt, newTerminalPrompter(), cmd)
		if err != nil {
			return err
		}

		messages.LoadMessages(cmd.Context())
		message, err := findMessage(messages, args[0])
		if err != nil {
			return err
		}

		messages.UpdateMessage(cmd.Context(), message)
		return nil
	},
}

var deleteMessageCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one of your messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		messages, err := openRoom(rt, newTerminalPrompter(), cmd)
		if err != nil {
			return err
		}

		messages.LoadMessages(cmd.Context())
		message, err := findMessage(messages, args[0])
		if err != nil {
			return err
		}

		messages.DeleteMessage(cmd.Context(), message)
		return nil
	},
}

var forwardMessageCmd = &cobra.Command{
	Use:   "forward [id]",
	Short: "Forward a message to another room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		messages, err := openRoom(rt, newTerminalPrompter(), cmd)
		if err != nil {
			return err
		}

		messages.LoadMessages(cmd.Context())
		message, err := findMessage(messages, args[0])
		if err != nil {
			return err
		}

		messages.Forward(cmd.Context(), message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(messageCmd)
	messageCmd.AddCommand(listMessagesCmd)
	messageCmd.AddCommand(sendMessageCmd)
	messageCmd.AddCommand(updateMessageCmd)
	messageCmd.AddCommand(deleteMessageCmd)
	messageCmd.AddCommand(forwardMessageCmd)

	messageCmd.PersistentFlags().StringP("room", "r", "", "Room id or exact room name (required)")
	messageCmd.MarkPersistentFlagRequired("room")
}

package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatrum/internal/model"
	"chatrum/internal/syncer"
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Chat room management commands",
	Long:  `Manage chat rooms: list, create, update, delete and change room pictures`,
}

// newRooms wires a room synchronizer onto the terminal. Commands run on the
// calling goroutine so the inline dispatcher is enough here.
func (rt *runtime) newRooms(p *terminalPrompter) *syncer.Rooms {
	picker := &terminalPicker{prompter: p}
	return syncer.NewRooms(rt.gw, rt.sessions, p, picker, syncer.InlineDispatcher{}, rt.cfg.AppDataDir, rt.logger)
}

// findRoom loads the room list and resolves one entry by id or exact name.
func findRoom(rooms *syncer.Rooms, cmd *cobra.Command, key string) (model.Room, error) {
	rooms.LoadRooms(cmd.Context())
	i := rooms.Cache.IndexFunc(func(r model.Room) bool {
		return r.ID == key || r.Name == key
	})
	if i < 0 {
		return model.Room{}, fmt.Errorf("room '%s' not found", key)
	}
	return rooms.Cache.At(i), nil
}

var listRoomsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your chat rooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		rooms := rt.newRooms(newTerminalPrompter())
		rooms.LoadRooms(cmd.Context())

		items := rooms.Cache.Items()
		if len(items) == 0 {
			fmt.Println("No rooms found.")
			return nil
		}

		fmt.Printf("Found %d rooms:\n\n", len(items))
		for _, r := range items {
			fmt.Printf("ID: %s\n", r.ID)
			fmt.Printf("Name: %s\n", r.Name)
			if r.Description != "" {
				fmt.Printf("Description: %s\n", r.Description)
			}
			fmt.Printf("Created At: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var createRoomCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new chat room",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		rooms := rt.newRooms(newTerminalPrompter())
		rooms.CreateRoom(cmd.Context())

		if rooms.Cache.Len() > 0 {
			created := rooms.Cache.At(0)
			fmt.Println("✓ Room created successfully!")
			fmt.Printf("ID: %s\n", created.ID)
			fmt.Printf("Name: %s\n", created.Name)
		}
		return nil
	},
}

var updateRoomCmd = &cobra.Command{
	Use:   "update [room]",
	Short: "Update a chat room's name and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		rooms := rt.newRooms(newTerminalPrompter())
		room, err := findRoom(rooms, cmd, args[0])
		if err != nil {
			return err
		}

		rooms.UpdateRoom(cmd.Context(), room)
		fmt.Println("✓ Room updated successfully!")
		return nil
	},
}

var deleteRoomCmd = &cobra.Command{
	Use:   "delete [room]",
	Short: "Delete a chat room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		rooms := rt.newRooms(newTerminalPrompter())
		room, err := findRoom(rooms, cmd, args[0])
		if err != nil {
			return err
		}

		rooms.DeleteRoom(cmd.Context(), room)
		return nil
	},
}

var roomPictureCmd = &cobra.Command{
	Use:   "picture [room]",
	Short: "Change a chat room's profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		rooms := rt.newRooms(newTerminalPrompter())
		room, err := findRoom(rooms, cmd, args[0])
		if err != nil {
			return err
		}

		rooms.ChangeProfilePicture(cmd.Context(), room)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roomCmd)
	roomCmd.AddCommand(listRoomsCmd)
	roomCmd.AddCommand(createRoomCmd)
	roomCmd.AddCommand(updateRoomCmd)
	roomCmd.AddCommand(deleteRoomCmd)
	roomCmd.AddCommand(roomPictureCmd)
}

package main

import (
	"strings"
	"testing"
)

func TestCommandTree(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"serve"}, want: "serve"},
		{args: []string{"create-staff"}, want: "create-staff"},
		{args: []string{}, want: "laum"},
	}

	for _, tt := range tests {
		cmd, _, err := rootCmd.Find(tt.args)
		if err != nil {
			t.Fatalf("Find(%v) error = %v", tt.args, err)
		}
		if cmd.Name() != tt.want {
			t.Errorf("Find(%v) = %q, want %q", tt.args, cmd.Name(), tt.want)
		}
	}

	if rootCmd.RunE == nil {
		t.Error("root command should serve when no subcommand is given")
	}
}

func TestCreateStaff_RequiresCredentials(t *testing.T) {
	rootCmd.SetArgs([]string{"create-staff", "--first-name", "Ali"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "required flag") {
		t.Errorf("Execute() error = %v, want a required flag error", err)
	}
}

func TestCreateStaff_Flags(t *testing.T) {
	for _, name := range []string{"email", "password", "first-name", "last-name", "superuser"} {
		if createStaffCmd.Flags().Lookup(name) == nil {
			t.Errorf("create-staff has no --%s flag", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("env-file") == nil {
		t.Error("root command has no --env-file flag")
	}
}

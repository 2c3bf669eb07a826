package entities

import "testing"

func TestNewPermission(t *testing.T) {
	tests := []struct {
		name         string
		permName     string
		wantErr      bool
		wantResource string
		wantAction   string
	}{
		{
			name:         "valid name",
			permName:     "doc:read",
			wantResource: "doc",
			wantAction:   "read",
		},
		{
			name:         "action containing colon splits on first",
			permName:     "api:path:get",
			wantResource: "api",
			wantAction:   "path:get",
		},
		{
			name:     "missing colon",
			permName: "docread",
			wantErr:  true,
		},
		{
			name:     "empty resource",
			permName: ":read",
			wantErr:  true,
		},
		{
			name:     "empty action",
			permName: "doc:",
			wantErr:  true,
		},
		{
			name:     "empty name",
			permName: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm, err := NewPermission(tt.permName, "desc")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPermission() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if perm.ID == "" {
				t.Error("NewPermission() did not assign an ID")
			}
			if perm.Resource != tt.wantResource || perm.Action != tt.wantAction {
				t.Errorf("NewPermission() parsed = (%q, %q), want (%q, %q)",
					perm.Resource, perm.Action, tt.wantResource, tt.wantAction)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		wantErr  bool
	}{
		{name: "valid", username: "alice", email: "alice@example.com"},
		{name: "empty username", username: "", email: "alice@example.com", wantErr: true},
		{name: "empty email", username: "alice", email: "", wantErr: true},
		{name: "email without at sign", username: "alice", email: "alice.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount("t1", tt.username, tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRole_EmptyName(t *testing.T) {
	if _, err := NewRole("t1", "", ""); err == nil {
		t.Error("NewRole() with empty name should fail")
	}
}

func TestNewGroup_EmptyName(t *testing.T) {
	if _, err := NewGroup("t1", "", ""); err == nil {
		t.Error("NewGroup() with empty name should fail")
	}
}

func TestNewResource_Validation(t *testing.T) {
	if _, err := NewResource("", "frontend", "t1", "", nil); err == nil {
		t.Error("NewResource() with empty type should fail")
	}
	if _, err := NewResource("doc", "", "t1", "", nil); err == nil {
		t.Error("NewResource() with empty name should fail")
	}
	res, err := NewResource("doc", "handbook", "t1", "owner1", nil)
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	if res.Metadata == nil {
		t.Error("NewResource() should initialize metadata map")
	}
}

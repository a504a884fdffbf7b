package security

import (
	"path/filepath"
	"testing"
)

func TestDefaultProtectedExactPathsDenied(t *testing.T) {
	g := New(nil)
	for _, p := range []string{"/etc/shadow", "/etc/sudoers"} {
		d := g.CheckPath(p)
		if d.Allowed {
			t.Errorf("expected %s to be denied, got allowed", p)
		}
	}
}

func TestDefaultProtectedPrefixPathsDenied(t *testing.T) {
	g := New(nil)
	home, err := currentHomeDirForTest()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}

	cases := []string{
		filepath.Join(home, ".ssh", "id_rsa"),
		filepath.Join(home, ".aws", "credentials"),
		filepath.Join(home, ".kube", "config"),
	}
	for _, p := range cases {
		d := g.CheckPath(p)
		if d.Allowed {
			t.Errorf("expected %s to be denied, got allowed", p)
		}
	}
}

func TestDefaultProtectedRegexPathsDenied(t *testing.T) {
	g := New(nil)
	for _, p := range []string{"/tmp/server.pem", "/home/u/.netrc", "/home/u/id_ed25519"} {
		d := g.CheckPath(p)
		if d.Allowed {
			t.Errorf("expected %s to be denied, got allowed", p)
		}
	}
}

func TestUnrelatedPathAllowed(t *testing.T) {
	g := New(nil)
	d := g.CheckPath("/tmp/report.txt")
	if !d.Allowed {
		t.Errorf("expected /tmp/report.txt to be allowed, got denied: %+v", d)
	}
}

func TestShouldHideInListingMirrorsCheckPath(t *testing.T) {
	g := New(nil)
	if !g.ShouldHideInListing("/etc/shadow") {
		t.Errorf("expected /etc/shadow to be hidden from listings")
	}
	if g.ShouldHideInListing("/tmp/report.txt") {
		t.Errorf("expected /tmp/report.txt to remain visible in listings")
	}
}

func TestCheckCommandBlocksKnownCredentialDumpTools(t *testing.T) {
	g := New(nil)
	d := g.CheckCommand("mimikatz.exe privilege::debug")
	if d.Allowed {
		t.Errorf("expected mimikatz invocation to be denied")
	}
}

func TestCheckCommandBlocksProtectedPathReference(t *testing.T) {
	g := New(nil)
	d := g.CheckCommand("cat /etc/shadow")
	if d.Allowed {
		t.Errorf("expected cat of /etc/shadow to be denied")
	}
}

func TestCheckCommandAllowsOrdinaryCommand(t *testing.T) {
	g := New(nil)
	d := g.CheckCommand("ls -la /tmp")
	if !d.Allowed {
		t.Errorf("expected ordinary ls command to be allowed, got denied: %+v", d)
	}
}

func TestOverlayAddsAdditionalProtectedPath(t *testing.T) {
	g := New(&Overlay{ProtectedPaths: []string{"/srv/secrets"}})
	d := g.CheckPath("/srv/secrets/db.conf")
	if d.Allowed {
		t.Fatalf("expected overlay prefix rule to deny /srv/secrets/db.conf")
	}
}

func currentHomeDirForTest() (string, error) {
	return currentHomeDir(), nil
}

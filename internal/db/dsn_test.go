package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"postgres://u:p@localhost:5432/magasin?sslmode=disable", "postgres://u:p@localhost:5432/magasin?sslmode=disable"},
		{"  'postgres://u@localhost/magasin'  ", "postgres://u@localhost/magasin"},
		{"host=localhost user=u dbname=magasin", "host=localhost user=u dbname=magasin sslmode=disable"},
		{"host=localhost   user=u    dbname=magasin sslmode=require", "host=localhost user=u dbname=magasin sslmode=require"},
		{"not a dsn at all", "not a dsn at all"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Fatalf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

package db

import (
	"strings"
	"testing"

	"github.com/zulandar/quotewire/internal/config"
	"github.com/zulandar/quotewire/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "default local",
			cfg:  config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root", Database: "quotewire"},
			want: "root@tcp(127.0.0.1:3306)/quotewire?parseTime=true",
		},
		{
			name: "custom host and port",
			cfg:  config.DatabaseConfig{Host: "10.0.0.5", Port: 3307, User: "qw", Database: "quotewire_prod"},
			want: "qw@tcp(10.0.0.5:3307)/quotewire_prod?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.cfg)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "localhost", Port: 3306, User: "root", Database: "test"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gdb
}

func TestAutoMigrate_AllTables(t *testing.T) {
	gdb := openTestDB(t)
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, m := range AllModels() {
		if !gdb.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
}

func TestSeedCompanies_UpsertsAndUpdates(t *testing.T) {
	gdb := openTestDB(t)
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	companies := []config.CompanyConfig{
		{ID: "biomac", Name: "Bio Mac Lifesciences", Industry: "laboratory", Priority: "cost_effective"},
	}
	if err := SeedCompanies(gdb, companies); err != nil {
		t.Fatalf("SeedCompanies: %v", err)
	}

	// Re-seed with changed priority: must update, not duplicate.
	companies[0].Priority = "urgent"
	if err := SeedCompanies(gdb, companies); err != nil {
		t.Fatalf("SeedCompanies (again): %v", err)
	}

	var count int64
	gdb.Model(&models.Company{}).Count(&count)
	if count != 1 {
		t.Errorf("company count = %d, want 1", count)
	}

	var co models.Company
	if err := gdb.First(&co, "id = ?", "biomac").Error; err != nil {
		t.Fatalf("load company: %v", err)
	}
	if co.Priority != "urgent" {
		t.Errorf("Priority = %q, want %q", co.Priority, "urgent")
	}
}

package db

import "database/sql"

// EnsureSchema creates the tables the service needs when they do not exist
// yet. Unique keys back every uniqueness invariant the handlers rely on.
func EnsureSchema(conn *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	fullname VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role ENUM('user','admin') NOT NULL DEFAULT 'user',
	login_attempts INT NOT NULL DEFAULT 0,
	lock_until TIMESTAMP NULL DEFAULT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS buses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_number VARCHAR(50) NOT NULL,
	registration_number VARCHAR(50) NOT NULL,
	capacity INT NOT NULL,
	bus_type ENUM('AC','Non-AC','Sleeper','Seater') NOT NULL,
	status ENUM('Active','Inactive','Maintenance') NOT NULL DEFAULT 'Active',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_buses_number (bus_number),
	UNIQUE KEY uniq_buses_registration (registration_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS drivers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	full_name VARCHAR(100) NOT NULL,
	license_number VARCHAR(16) NOT NULL,
	license_expiry DATE NOT NULL,
	contact_number VARCHAR(10) NOT NULL,
	address VARCHAR(500) NOT NULL,
	date_of_birth DATE NULL,
	emergency_name VARCHAR(100) NOT NULL DEFAULT '',
	emergency_phone VARCHAR(10) NOT NULL DEFAULT '',
	emergency_relationship VARCHAR(50) NOT NULL DEFAULT '',
	experience INT NOT NULL DEFAULT 0,
	salary DECIMAL(12,2) NOT NULL DEFAULT 0,
	join_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	assigned_bus VARCHAR(50) NOT NULL DEFAULT '',
	availability_status ENUM('Available','Busy','On Leave','Suspended','Inactive') NOT NULL DEFAULT 'Available',
	previous_status ENUM('Available','Busy','On Leave','Suspended','Inactive') NOT NULL DEFAULT 'Available',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	license_expiry_warning TINYINT(1) NOT NULL DEFAULT 0,
	last_status_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	profile_photo VARCHAR(500) NOT NULL DEFAULT 'https://i.pravatar.cc/150',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_drivers_license (license_number),
	UNIQUE KEY uniq_drivers_contact (contact_number),
	KEY idx_drivers_status (availability_status),
	KEY idx_drivers_assigned_bus (assigned_bus)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bus_schedules (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	bus_number VARCHAR(50) NOT NULL,
	route VARCHAR(255) NOT NULL,
	date DATETIME NOT NULL,
	departure VARCHAR(20) NOT NULL,
	arrival VARCHAR(20) NOT NULL,
	driver VARCHAR(100) NOT NULL DEFAULT '',
	fare DECIMAL(12,2) NOT NULL DEFAULT 0,
	status ENUM('Scheduled','In Progress','Completed','Cancelled') NOT NULL DEFAULT 'Scheduled',
	available_seats INT NOT NULL DEFAULT 0,
	total_seats INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_schedules_bus_date (bus_number, date),
	KEY idx_schedules_route_date (route, date),
	CONSTRAINT chk_schedule_seats CHECK (available_seats >= 0 AND available_seats <= total_seats)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	schedule_id BIGINT NOT NULL,
	bus_id BIGINT NOT NULL,
	route_from VARCHAR(255) NOT NULL,
	route_to VARCHAR(255) NOT NULL,
	travel_date DATETIME NOT NULL,
	departure_time VARCHAR(20) NOT NULL,
	arrival_time VARCHAR(20) NOT NULL,
	total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
	payment_status ENUM('Pending','Completed','Failed','Refunded') NOT NULL DEFAULT 'Pending',
	payment_method ENUM('Cash','Card','Online','Wallet') NOT NULL DEFAULT 'Online',
	booking_status ENUM('Active','Completed','Cancelled') NOT NULL DEFAULT 'Active',
	booking_reference VARCHAR(32) NOT NULL,
	contact_email VARCHAR(255) NOT NULL,
	contact_phone VARCHAR(20) NOT NULL,
	cancelled_at TIMESTAMP NULL DEFAULT NULL,
	cancellation_reason VARCHAR(500) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_bookings_reference (booking_reference),
	KEY idx_bookings_user_status (user_id, booking_status),
	KEY idx_bookings_schedule_date (schedule_id, travel_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS booking_passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	name VARCHAR(100) NOT NULL,
	age INT NOT NULL,
	gender ENUM('Male','Female','Other') NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	KEY idx_booking_passengers (booking_id),
	CONSTRAINT fk_booking_passengers FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, stmt := range ddl {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

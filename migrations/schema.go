package migrations

// All returns the full migration ledger in application order.
func All() []Migration {
	return []Migration{
		{
			Version: "0001_enum_types",
			SQL: `
				CREATE TYPE city_fee_model AS ENUM ('pauschal', 'pro_plakat', 'pro_zeitraum');
				CREATE TYPE poster_size AS ENUM ('A1', 'A0', '120x180');
				CREATE TYPE distribution_list_status AS ENUM ('draft', 'sent', 'accepted', 'rejected', 'revised');
				CREATE TYPE permit_status AS ENUM ('draft', 'sent', 'requested', 'info_needed', 'approved', 'approved_with_conditions', 'rejected');
				CREATE TYPE campaign_status AS ENUM ('backlog', 'permits', 'print', 'planning', 'hanging', 'control', 'removal_plan', 'removal_live', 'report', 'archive');
				CREATE TYPE email_delivery_status AS ENUM ('sent', 'skipped', 'failed');
			`,
		},
		{
			Version: "0002_clients",
			SQL: `
				CREATE TABLE clients (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL DEFAULT '',
					phone VARCHAR(50) NOT NULL DEFAULT '',
					address TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_clients_uuid ON clients (uuid);
			`,
		},
		{
			Version: "0003_file_assets",
			SQL: `
				CREATE TABLE file_assets (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					storage_key VARCHAR(255) NOT NULL,
					original_filename VARCHAR(255) NOT NULL,
					content_type VARCHAR(100) NOT NULL,
					size_bytes BIGINT NOT NULL,
					kind VARCHAR(20) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC')
				);
				CREATE UNIQUE INDEX uk_file_assets_uuid ON file_assets (uuid);
				CREATE UNIQUE INDEX uk_file_assets_storage_key ON file_assets (storage_key);
				CREATE INDEX idx_file_assets_kind ON file_assets (kind);
			`,
		},
		{
			Version: "0004_cities",
			SQL: `
				CREATE TABLE cities (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					name VARCHAR(255) NOT NULL,
					postal_code VARCHAR(10) NOT NULL,
					contact_email VARCHAR(255) NOT NULL DEFAULT '',
					fee_model city_fee_model NOT NULL DEFAULT 'pauschal',
					fee NUMERIC(12,2) NOT NULL DEFAULT 0,
					max_quantity INTEGER,
					max_poster_size poster_size,
					requires_permit_form BOOLEAN NOT NULL DEFAULT FALSE,
					requires_poster_image BOOLEAN NOT NULL DEFAULT FALSE,
					permit_form_asset_id BIGINT REFERENCES file_assets (id) ON DELETE SET NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_cities_uuid ON cities (uuid);
				CREATE UNIQUE INDEX uk_cities_postal_code ON cities (postal_code);
				CREATE INDEX idx_cities_permit_form_asset_id ON cities (permit_form_asset_id);
			`,
		},
		{
			Version: "0005_distribution_lists",
			SQL: `
				CREATE TABLE distribution_lists (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					client_id BIGINT NOT NULL REFERENCES clients (id),
					event_name VARCHAR(255) NOT NULL,
					event_address TEXT NOT NULL DEFAULT '',
					event_date TIMESTAMPTZ,
					start_date TIMESTAMPTZ,
					end_date TIMESTAMPTZ,
					notes TEXT NOT NULL DEFAULT '',
					status distribution_list_status NOT NULL DEFAULT 'draft',
					poster_image_asset_id BIGINT REFERENCES file_assets (id) ON DELETE SET NULL,
					archived_at TIMESTAMPTZ,
					sent_at TIMESTAMPTZ,
					accepted_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_distribution_lists_uuid ON distribution_lists (uuid);
				CREATE INDEX idx_distribution_lists_client_id ON distribution_lists (client_id);
				CREATE INDEX idx_distribution_lists_status ON distribution_lists (status);
				CREATE INDEX idx_distribution_lists_created_at ON distribution_lists (created_at);
				CREATE INDEX idx_distribution_lists_poster_image_asset_id ON distribution_lists (poster_image_asset_id);
			`,
		},
		{
			Version: "0006_distribution_list_items",
			SQL: `
				CREATE TABLE distribution_list_items (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					distribution_list_id BIGINT NOT NULL REFERENCES distribution_lists (id) ON DELETE CASCADE,
					city_id BIGINT NOT NULL REFERENCES cities (id),
					quantity INTEGER NOT NULL,
					poster_size poster_size NOT NULL DEFAULT 'A1',
					fee NUMERIC(12,2),
					distance_km DOUBLE PRECISION,
					attach_poster_image BOOLEAN NOT NULL DEFAULT FALSE,
					attach_permit_form BOOLEAN NOT NULL DEFAULT FALSE,
					permit_status permit_status NOT NULL DEFAULT 'draft',
					request_sent_at TIMESTAMPTZ,
					response_received_at TIMESTAMPTZ,
					response_type VARCHAR(50),
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_distribution_list_items_uuid ON distribution_list_items (uuid);
				CREATE INDEX idx_distribution_list_items_list_id ON distribution_list_items (distribution_list_id);
				CREATE INDEX idx_distribution_list_items_city_id ON distribution_list_items (city_id);
			`,
		},
		{
			Version: "0007_campaigns",
			SQL: `
				CREATE TABLE campaigns (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					client_id BIGINT NOT NULL REFERENCES clients (id),
					source_list_id BIGINT REFERENCES distribution_lists (id),
					event_name VARCHAR(255) NOT NULL,
					event_address TEXT NOT NULL DEFAULT '',
					event_date TIMESTAMPTZ,
					start_date TIMESTAMPTZ,
					end_date TIMESTAMPTZ,
					notes TEXT NOT NULL DEFAULT '',
					status campaign_status NOT NULL DEFAULT 'backlog',
					archived_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_campaigns_uuid ON campaigns (uuid);
				CREATE UNIQUE INDEX uk_campaigns_source_list_id ON campaigns (source_list_id);
				CREATE INDEX idx_campaigns_client_id ON campaigns (client_id);
				CREATE INDEX idx_campaigns_status ON campaigns (status);
				CREATE INDEX idx_campaigns_created_at ON campaigns (created_at);
			`,
		},
		{
			Version: "0008_permits",
			SQL: `
				CREATE TABLE permits (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					campaign_id BIGINT NOT NULL REFERENCES campaigns (id) ON DELETE CASCADE,
					city_id BIGINT NOT NULL REFERENCES cities (id),
					quantity INTEGER NOT NULL,
					poster_size poster_size NOT NULL DEFAULT 'A1',
					fee NUMERIC(12,2) NOT NULL DEFAULT 0,
					status permit_status NOT NULL DEFAULT 'draft',
					sent_at TIMESTAMPTZ,
					decided_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC'),
					updated_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX uk_permits_uuid ON permits (uuid);
				CREATE INDEX idx_permits_campaign_id ON permits (campaign_id);
				CREATE INDEX idx_permits_city_id ON permits (city_id);
				CREATE INDEX idx_permits_status ON permits (status);
			`,
		},
		{
			Version: "0009_permit_emails",
			SQL: `
				CREATE TABLE permit_emails (
					id BIGSERIAL PRIMARY KEY,
					uuid UUID NOT NULL,
					item_id BIGINT NOT NULL REFERENCES distribution_list_items (id) ON DELETE CASCADE,
					direction VARCHAR(10) NOT NULL,
					delivery_status email_delivery_status NOT NULL,
					recipient VARCHAR(255) NOT NULL DEFAULT '',
					subject TEXT NOT NULL DEFAULT '',
					body TEXT NOT NULL DEFAULT '',
					attachments JSONB,
					provider_message_id VARCHAR(255),
					error_detail TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT (CURRENT_TIMESTAMP AT TIME ZONE 'UTC')
				);
				CREATE UNIQUE INDEX uk_permit_emails_uuid ON permit_emails (uuid);
				CREATE INDEX idx_permit_emails_item_id ON permit_emails (item_id);
				CREATE INDEX idx_permit_emails_created_at ON permit_emails (created_at);
			`,
		},
	}
}

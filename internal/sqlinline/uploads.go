package sqlinline

const QCreateUploadsTable = `--sql 3f0c8a52-6a4e-4d1b-9b8e-2f41c7d9a0e6
create table if not exists uploads (
  id           uuid primary key default gen_random_uuid(),
  kind         text not null check (kind in ('user', 'garment', 'generated')),
  storage_key  text not null,
  content_type text not null default '',
  bytes        bigint not null default 0,
  width        int not null default 0,
  height       int not null default 0,
  url          text not null default '',
  created_at   timestamptz not null default now()
);
`

const QCreateUploadsKindIndex = `--sql 8d27b1e4-0c53-4f6a-a1d9-5e8b3c7f2a10
create index if not exists uploads_kind_created_at_idx on uploads (kind, created_at desc);
`

const QInsertUpload = `--sql b5e9d3a7-1f42-4c8e-9a60-7d2c4e8b1f35
insert into uploads(kind, storage_key, content_type, bytes, width, height, url)
values ($1::text, $2::text, $3::text, $4::bigint, $5::int, $6::int, $7::text)
returning id::text, created_at;
`

const QListUploads = `--sql 6c1a4f8e-2d7b-4e93-b05c-9f3e8a2d6c47
select id::text, kind, storage_key, content_type, bytes, width, height, url, created_at
from uploads
where ($1::text = '' or kind = $1::text)
order by created_at desc
limit $2::int;
`

// Schema lists the statements applied at startup, in order.
var Schema = []string{QCreateUploadsTable, QCreateUploadsKindIndex}

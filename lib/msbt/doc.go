// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package msbt reads and writes MSBT message containers (MsgStdBn),
// the NintendoWare text resource format.
//
// An MSBT file carries labeled messages in three sections: LBL1 (a
// bucketed label hash table), optional ATR1 (one fixed-size attribute
// record per message), and TXT2 (the message strings). Sections are
// padded to 16 bytes with 0xAB filler; byte order follows the
// header's byte-order mark.
//
// Message text embeds inline control sequences: 0x0E opens a tag
// (group, type, and a sized payload the game interprets), 0x0F closes
// one (group, type). The decoder splits each message into structural
// parts — text runs and tags — so manifests can round-trip tags
// without guessing at their meaning.
package msbt

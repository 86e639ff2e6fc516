// Package leaguefile はWADアーカイブ内のデータをマジックバイトから判別するためのパッケージです。
//
// 判別はデータの内容のみで行い、パス名は使用しません。
//
//	kind := leaguefile.Identify(data)
//	if ext, ok := kind.Extension(); ok {
//	    name = name + "." + ext
//	}
package leaguefile

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Kind はファイルの種類を表します
type Kind int

const (
	Unknown Kind = iota
	Animation
	Jpeg
	LightGrid
	LuaObj
	MapGeometry
	Png
	Preload
	PropertyBin
	PropertyBinOverride
	RiotStringTable
	SimpleSkin
	Skeleton
	StaticMeshAscii
	StaticMeshBinary
	Svg
	Texture
	TextureDds
	WorldGeometry
	WwiseBank
	WwisePackage
)

// kindInfo は種類ごとの名前と拡張子
type kindInfo struct {
	name      string
	extension string
}

var kinds = map[Kind]kindInfo{
	Unknown:             {"unknown", ""},
	Animation:           {"animation", "anm"},
	Jpeg:                {"jpeg", "jpg"},
	LightGrid:           {"lightgrid", "lightgrid"},
	LuaObj:              {"luaobj", "luaobj"},
	MapGeometry:         {"mapgeometry", "mapgeo"},
	Png:                 {"png", "png"},
	Preload:             {"preload", "preload"},
	PropertyBin:         {"propertybin", "bin"},
	PropertyBinOverride: {"propertybinoverride", "bin"},
	RiotStringTable:     {"riotstringtable", "stringtable"},
	SimpleSkin:          {"simpleskin", "skn"},
	Skeleton:            {"skeleton", "skl"},
	StaticMeshAscii:     {"staticmeshascii", "sco"},
	StaticMeshBinary:    {"staticmeshbinary", "scb"},
	Svg:                 {"svg", "svg"},
	Texture:             {"texture", "tex"},
	TextureDds:          {"texturedds", "dds"},
	WorldGeometry:       {"worldgeometry", "wgeo"},
	WwiseBank:           {"wwisebank", "bnk"},
	WwisePackage:        {"wwisepackage", "wpk"},
}

// signature は先頭バイト列と種類の対応
type signature struct {
	magic []byte
	kind  Kind
}

// 長いマジックから順に評価する
var signatures = []signature{
	{[]byte("[ObjectBegin]"), StaticMeshAscii},
	{[]byte("\x1bLuaQ\x00\x01\x04\x04"), LuaObj},
	{[]byte("r3d2Mesh"), StaticMeshBinary},
	{[]byte("r3d2sklt"), Skeleton},
	{[]byte("r3d2anmd"), Animation},
	{[]byte("r3d2canm"), Animation},
	{[]byte("\x89PNG\r\n\x1a\n"), Png},
	{[]byte("PreLoad"), Preload},
	{[]byte{0x33, 0x22, 0x11, 0x00}, SimpleSkin},
	{[]byte("OEGM"), MapGeometry},
	{[]byte("DDS "), TextureDds},
	{[]byte("<svg"), Svg},
	{[]byte("PROP"), PropertyBin},
	{[]byte("PTCH"), PropertyBinOverride},
	{[]byte("BKHD"), WwiseBank},
	{[]byte("r3d2"), WwisePackage},
	{[]byte("WGEO"), WorldGeometry},
	{[]byte("TEX\x00"), Texture},
	{[]byte("RST"), RiotStringTable},
	{[]byte{0xFF, 0xD8, 0xFF}, Jpeg},
}

// skeletonMagic は旧形式スケルトンのオフセット4に置かれる値
const skeletonMagic = 0x22FD4FC3

// Identify はデータの先頭からファイルの種類を判別します。判別できない場合はUnknownを返します
func Identify(data []byte) Kind {
	if len(data) >= 8 && binary.LittleEndian.Uint32(data[4:8]) == skeletonMagic {
		return Skeleton
	}

	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.kind
		}
	}

	// ライトグリッドはマジックを持たず、先頭がバージョン3固定
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[0:4]) == 3 {
		return LightGrid
	}

	return Unknown
}

// Extension は種類に対応する拡張子（ドットなし）を返します
func (k Kind) Extension() (string, bool) {
	info, ok := kinds[k]
	if !ok || info.extension == "" {
		return "", false
	}
	return info.extension, true
}

// String は種類の名前を返します
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return kinds[Unknown].name
}

// ParseKind は種類名または拡張子から種類を取得します（大文字小文字は区別しません）
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "" {
		return Unknown, false
	}
	for k, info := range kinds {
		if info.name == s {
			return k, true
		}
	}
	// 拡張子が重複する場合（bin）は値の小さい種類を優先
	found := false
	var result Kind
	for k, info := range kinds {
		if info.extension == s && (!found || k < result) {
			result = k
			found = true
		}
	}
	return result, found
}

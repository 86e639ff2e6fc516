package leaguefile

import (
	"testing"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"PNG", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), Png},
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, Jpeg},
		{"DDS", []byte("DDS |\x00\x00\x00"), TextureDds},
		{"TEX", []byte("TEX\x00\x01\x02"), Texture},
		{"プロパティbin", []byte("PROP\x01\x00\x00\x00"), PropertyBin},
		{"プロパティbinパッチ", []byte("PTCH\x01\x00\x00\x00"), PropertyBinOverride},
		{"スキン", []byte{0x33, 0x22, 0x11, 0x00, 0x01}, SimpleSkin},
		{"新形式スケルトン", []byte("r3d2sklt\x00"), Skeleton},
		{"旧形式スケルトン", []byte{0, 0, 0, 0, 0xC3, 0x4F, 0xFD, 0x22}, Skeleton},
		{"アニメーション", []byte("r3d2anmd"), Animation},
		{"圧縮アニメーション", []byte("r3d2canm"), Animation},
		{"Wwiseバンク", []byte("BKHD\x00"), WwiseBank},
		{"Luaオブジェクト", []byte("\x1bLuaQ\x00\x01\x04\x04\x08"), LuaObj},
		{"ASCIIメッシュ", []byte("[ObjectBegin]\nName= x"), StaticMeshAscii},
		{"ライトグリッド", []byte{3, 0, 0, 0, 9, 9}, LightGrid},
		{"SVG", []byte("<svg xmlns"), Svg},
		{"空データ", []byte{}, Unknown},
		{"不明なデータ", []byte("hello, world"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identify(tt.data); got != tt.want {
				t.Errorf("Identify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_Extension(t *testing.T) {
	tests := []struct {
		kind   Kind
		want   string
		wantOK bool
	}{
		{Png, "png", true},
		{PropertyBin, "bin", true},
		{PropertyBinOverride, "bin", true},
		{TextureDds, "dds", true},
		{WwisePackage, "wpk", true},
		{Unknown, "", false},
		{Kind(999), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, ok := tt.kind.Extension()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Extension() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input  string
		want   Kind
		wantOK bool
	}{
		{"png", Png, true},
		{"PNG", Png, true},
		{".dds", TextureDds, true},
		{"texturedds", TextureDds, true},
		{"bin", PropertyBin, true},
		{"propertybinoverride", PropertyBinOverride, true},
		{"jpg", Jpeg, true},
		{"", Unknown, false},
		{"nope", Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseKind(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseKind(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

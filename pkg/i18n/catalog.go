package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

//go:embed messages/*.yaml
var messagesFS embed.FS

// Catalog 多语言消息目录
//
// 每个语言一个 YAML 文件，条目形如:
//
//	memberNotFound:
//	  code: "-1000"
//	  msg: "会员不存在"
//
// 查询时先按请求语言查找，缺失则回落到默认语言。
type Catalog struct {
	defaultTag language.Tag
	tags       []language.Tag // tags[0] 为默认语言
	bundles    map[string]*viper.Viper
	matcher    language.Matcher
}

// NewCatalog 加载内嵌消息文件
func NewCatalog(defaultLocale string) (*Catalog, error) {
	defaultTag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("无效的默认语言 %q: %w", defaultLocale, err)
	}

	entries, err := messagesFS.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("读取消息目录失败: %w", err)
	}

	c := &Catalog{
		defaultTag: defaultTag,
		bundles:    make(map[string]*viper.Viper, len(entries)),
	}

	var others []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		locale := strings.TrimSuffix(name, path.Ext(name))
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("无效的消息文件名 %q: %w", name, err)
		}

		data, err := messagesFS.ReadFile("messages/" + name)
		if err != nil {
			return nil, fmt.Errorf("读取消息文件 %s 失败: %w", name, err)
		}
		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("解析消息文件 %s 失败: %w", name, err)
		}

		c.bundles[tag.String()] = v
		if tag != defaultTag {
			others = append(others, tag)
		}
	}

	if _, ok := c.bundles[defaultTag.String()]; !ok {
		return nil, fmt.Errorf("缺少默认语言 %s 的消息文件", defaultTag)
	}

	c.tags = append([]language.Tag{defaultTag}, others...)
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// DefaultLocale 默认语言
func (c *Catalog) DefaultLocale() string {
	return c.defaultTag.String()
}

// Match 根据 Accept-Language 头选择最合适的已支持语言
func (c *Catalog) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.DefaultLocale()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.DefaultLocale()
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.DefaultLocale()
	}
	return c.tags[idx].String()
}

// Message 查询 <key>.msg，未找到时返回 key 本身
func (c *Catalog) Message(key, locale string) string {
	if v := c.lookup(key+".msg", locale); v != nil {
		return v.GetString(key + ".msg")
	}
	return key
}

// Code 查询 <key>.code，未找到或无法解析时返回 unKnown 的代码
func (c *Catalog) Code(key, locale string) int {
	if v := c.lookup(key+".code", locale); v != nil {
		return v.GetInt(key + ".code")
	}
	if key != "unKnown" {
		return c.Code("unKnown", locale)
	}
	return -9999
}

// Has 判断默认语言中是否存在该 key
func (c *Catalog) Has(key string) bool {
	v := c.bundles[c.DefaultLocale()]
	return v.IsSet(key+".code") && v.IsSet(key+".msg")
}

func (c *Catalog) lookup(fullKey, locale string) *viper.Viper {
	if v, ok := c.bundles[locale]; ok && v.IsSet(fullKey) {
		return v
	}
	if v := c.bundles[c.DefaultLocale()]; v.IsSet(fullKey) {
		return v
	}
	return nil
}
